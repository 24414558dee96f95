// ABOUTME: Root bubbletea model for the dashboard TUI
// ABOUTME: Manages screen state, login and resource loading with an in-flight guard

package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/polarisoffice/secuone-console/internal/secuone"
	"github.com/polarisoffice/secuone-console/internal/session"
	"github.com/polarisoffice/secuone-console/internal/tui/browser"
	"github.com/polarisoffice/secuone-console/internal/tui/loginform"
	"github.com/polarisoffice/secuone-console/internal/tui/menu"
	"github.com/polarisoffice/secuone-console/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenMenu
	ScreenBrowser
)

// Layout constants
const (
	minTerminalWidth = 80
	frameOverhead    = 10 // header, footer, panel borders and padding
)

// rowsLoadedMsg is sent when a resource listing completes.
type rowsLoadedMsg struct {
	resource menu.Resource
	columns  []string
	widths   []int
	rows     [][]string
	err      error
}

// loginDoneMsg is sent when a login attempt completes.
type loginDoneMsg struct {
	result *secuone.LoginResult
	err    error
}

// sessionEndedMsg is sent when the stored session disappears, either
// cleared by another process or dropped by the transport after a 401.
type sessionEndedMsg struct{}

// App is the root model for the TUI.
type App struct {
	client *secuone.Client
	store  *session.Store

	screen   Screen
	width    int
	height   int
	err      error
	resource menu.Resource
	loaded   time.Time

	// inFlight guards against double submission: while a login or load
	// request is pending, further submits and refreshes are dropped. It
	// is cleared when the result arrives, success or not.
	inFlight bool
	spin     spinner.Model

	menu    *menu.Menu
	login   *loginform.Form
	browser *browser.Browser
}

// New creates the TUI application. The starting screen depends on
// whether a stored session exists.
func New(client *secuone.Client, store *session.Store) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	a := &App{
		client: client,
		store:  store,
		spin:   sp,
	}
	if sess := store.Current(); sess != nil {
		a.screen = ScreenMenu
		a.menu = menu.New(sess.Type == session.TypeAdmin)
	} else {
		a.screen = ScreenLogin
		a.login = loginform.New()
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenLogin && a.login != nil {
		return a.login.Init()
	}
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.browser != nil {
			a.browser.SetHeight(a.contentHeight())
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.screen {
		case ScreenLogin:
			return a.updateChild(msg)
		case ScreenMenu:
			if msg.String() == "q" {
				return a, tea.Quit
			}
			return a.updateMenu(msg)
		case ScreenBrowser:
			if msg.String() == "q" {
				return a, tea.Quit
			}
			return a.updateBrowser(msg)
		}

	case spinner.TickMsg:
		if !a.inFlight {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case loginform.SubmitMsg:
		if a.inFlight {
			return a, nil
		}
		a.inFlight = true
		a.err = nil
		return a, tea.Batch(a.spin.Tick, a.doLogin(msg))

	case loginform.CancelledMsg:
		return a, tea.Quit

	case loginDoneMsg:
		a.inFlight = false
		if msg.err != nil {
			a.login = loginform.New()
			a.login.SetStatus("Login failed: " + msg.err.Error())
			return a, a.login.Init()
		}
		sess := a.store.Current()
		a.menu = menu.New(sess != nil && sess.Type == session.TypeAdmin)
		a.login = nil
		a.screen = ScreenMenu
		return a, nil

	case menu.ResourceSelectedMsg:
		if a.inFlight {
			return a, nil
		}
		a.inFlight = true
		a.err = nil
		a.resource = msg.Resource
		return a, tea.Batch(a.spin.Tick, a.loadResource(msg.Resource))

	case menu.CancelledMsg:
		return a, tea.Quit

	case browser.RefreshMsg:
		if a.inFlight {
			return a, nil
		}
		a.inFlight = true
		a.err = nil
		// Force re-resolution so a moved endpoint is picked up.
		a.client.Resolver().Reset(a.resource.String())
		return a, tea.Batch(a.spin.Tick, a.loadResource(a.resource))

	case browser.BackMsg:
		a.screen = ScreenMenu
		a.browser = nil
		a.err = nil
		return a, nil

	case sessionEndedMsg:
		if a.screen == ScreenLogin {
			return a, nil
		}
		a.inFlight = false
		a.err = nil
		a.menu = nil
		a.browser = nil
		a.screen = ScreenLogin
		a.login = loginform.New()
		a.login.SetStatus("Session ended elsewhere; sign in again.")
		return a, a.login.Init()

	case rowsLoadedMsg:
		a.inFlight = false
		if msg.err != nil {
			a.err = msg.err
			a.screen = ScreenMenu
			a.browser = nil
			return a, nil
		}
		a.browser = browser.New(msg.resource.Title(), msg.columns, msg.widths, msg.rows)
		a.browser.SetHeight(a.contentHeight())
		a.loaded = time.Now()
		a.screen = ScreenBrowser
		return a, nil

	default:
		// huh forms need non-key messages forwarded
		if a.screen == ScreenLogin && a.login != nil {
			return a.updateChild(msg)
		}
	}

	return a, nil
}

func (a *App) updateChild(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.login == nil {
		return a, nil
	}
	model, cmd := a.login.Update(msg)
	a.login = model.(*loginform.Form)
	return a, cmd
}

func (a *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.menu == nil {
		return a, nil
	}
	model, cmd := a.menu.Update(msg)
	a.menu = model.(*menu.Menu)
	return a, cmd
}

func (a *App) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.browser == nil {
		return a, nil
	}
	model, cmd := a.browser.Update(msg)
	a.browser = model.(*browser.Browser)
	return a, cmd
}

// doLogin performs the login request off the UI loop.
func (a *App) doLogin(msg loginform.SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		var result *secuone.LoginResult
		var err error
		if msg.Customer {
			result, err = a.client.Auth.CustomerLogin(context.Background(), msg.CustomerCode, msg.Username, msg.Password)
		} else {
			result, err = a.client.Auth.AdminLogin(context.Background(), msg.Username, msg.Password)
		}
		return loginDoneMsg{result: result, err: err}
	}
}

// loadResource fetches the listing for the chosen resource.
func (a *App) loadResource(r menu.Resource) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := rowsLoadedMsg{resource: r}
		switch r {
		case menu.ResourceCustomers:
			customers, err := a.client.Customers.List(ctx, "")
			msg.err = err
			msg.columns = []string{"CODE", "NAME", "TYPE", "RS%", "CPI"}
			msg.widths = []int{16, 24, 10, 8, 8}
			for _, c := range customers {
				msg.rows = append(msg.rows, []string{
					c.Code, c.Name, c.IntegrationType,
					fmt.Sprintf("%.2f", c.RSPercent), fmt.Sprintf("%.2f", c.CPIValue),
				})
			}
		case menu.ResourceContacts:
			contacts, err := a.client.Contacts.List(ctx, "")
			msg.err = err
			msg.columns = []string{"ID", "CUSTOMER", "NAME", "EMAIL"}
			msg.widths = []int{8, 14, 20, 28}
			for _, c := range contacts {
				msg.rows = append(msg.rows, []string{
					strconv.FormatInt(c.ID, 10), c.CustomerCode, c.Name, c.Email,
				})
			}
		case menu.ResourceNotices:
			notices, err := a.client.Notices.List(ctx)
			msg.err = err
			msg.columns = []string{"ID", "CATEGORY", "DATE", "TITLE"}
			msg.widths = []int{12, 14, 12, 40}
			for _, n := range notices {
				msg.rows = append(msg.rows, []string{n.ID, n.Category, n.Date, n.Title})
			}
		case menu.ResourceNewsletters:
			entries, err := a.client.Newsletters.List(ctx)
			msg.err = err
			msg.columns = []string{"ID", "CATEGORY", "DATE", "TITLE"}
			msg.widths = []int{12, 12, 12, 40}
			for _, e := range entries {
				msg.rows = append(msg.rows, []string{e.ID, e.Category, e.Date, e.Title})
			}
		case menu.ResourceDirectAds:
			ads, err := a.client.DirectAds.List(ctx, 200)
			msg.err = err
			msg.columns = []string{"ID", "TYPE", "ADVERTISER", "STATUS", "VIEWS", "CLICKS"}
			msg.widths = []int{26, 10, 20, 9, 8, 8}
			for _, ad := range ads {
				msg.rows = append(msg.rows, []string{
					ad.ID, ad.AdType, ad.AdvertiserName, ad.Status,
					strconv.FormatInt(ad.ViewCount, 10), strconv.FormatInt(ad.ClickCount, 10),
				})
			}
		case menu.ResourcePolarLetters:
			letters, err := a.client.PolarLetters.List(ctx)
			msg.err = err
			msg.columns = []string{"ID", "AUTHOR", "TITLE", "CREATED"}
			msg.widths = []int{12, 16, 36, 18}
			for _, l := range letters {
				msg.rows = append(msg.rows, []string{l.ID, l.Author, l.Title, l.CreateTime})
			}
		case menu.ResourceEvents:
			events, err := a.client.Events.Feed(ctx, "", 200)
			msg.err = err
			msg.columns = []string{"ID", "CUSTOMER", "TYPE", "DEVICE", "AT"}
			msg.widths = []int{8, 14, 20, 20, 20}
			for _, e := range events {
				msg.rows = append(msg.rows, []string{
					strconv.FormatInt(e.ID, 10), e.CustomerCode, e.EventType, e.DeviceID, e.CreatedAt,
				})
			}
		}
		return msg
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string
	switch {
	case a.inFlight:
		content = a.spin.View() + " Loading..."
	case a.screen == ScreenLogin && a.login != nil:
		content = a.login.View()
	case a.screen == ScreenMenu && a.menu != nil:
		content = a.viewMenu()
	case a.screen == ScreenBrowser && a.browser != nil:
		content = a.browser.View()
	}

	panel := styles.ActivePanel
	if a.width >= minTerminalWidth {
		panel = panel.Width(a.width - 4)
	}
	return a.renderHeader() + "\n" + panel.Render(content) + "\n" + a.renderFooter()
}

func (a *App) viewMenu() string {
	var sb strings.Builder
	if a.err != nil {
		sb.WriteString(styles.StatusCritical.Render("Error: " + a.err.Error()))
		sb.WriteString("\n\n")
	}
	sb.WriteString(a.menu.View())
	return sb.String()
}

// renderHeader creates the header bar with branding and the signed-in
// principal.
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := " " + titleStyle.Render("SecuOne Console")
	rightText := ""
	if sess := a.store.Current(); sess != nil {
		rightText = contextStyle.Render(fmt.Sprintf("%s (%s)", sess.Username(), sess.Type)) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText)
	if fillWidth < 0 {
		fillWidth = 0
	}
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with shortcuts and freshness.
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Tab Next", "Enter Submit", "Esc Quit"}
	case ScreenMenu:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenBrowser:
		shortcuts = []string{"↑↓ Move", "/ Filter", "r Refresh", "b Back", "q Quit"}
	}

	var styled []string
	var plain []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
		plain = append(plain, s)
	}

	leftText := " " + strings.Join(styled, "  ")
	leftPlain := " " + strings.Join(plain, "  ")

	rightText := ""
	rightPlain := ""
	if !a.loaded.IsZero() && a.screen == ScreenBrowser {
		elapsed := formatTimeSince(a.loaded)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlain = "Updated " + elapsed + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftPlain) - lipgloss.Width(rightPlain)
	if fillWidth < 0 {
		fillWidth = 0
	}
	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// contentHeight calculates the rows available inside the panel.
func (a *App) contentHeight() int {
	h := a.height - frameOverhead
	if h < 4 {
		h = 4
	}
	return h
}

// formatTimeSince formats a duration since t in human-readable form.
func formatTimeSince(t time.Time) string {
	d := time.Since(t)
	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// Run starts the TUI. The credential store is watched for the whole
// run so a logout in another terminal pushes the dashboard back to the
// login screen.
func Run(client *secuone.Client, store *session.Store) error {
	app := New(client, store)
	p := tea.NewProgram(app, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.Subscribe(func(sess *session.Session) {
		if sess == nil {
			p.Send(sessionEndedMsg{})
		}
	})
	go store.Watch(ctx, 2*time.Second)

	_, err := p.Run()
	return err
}
