// ABOUTME: Login form as a bubbletea model
// ABOUTME: Collects principal type and credentials through a huh form

package loginform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/polarisoffice/secuone-console/internal/tui/styles"
)

// SubmitMsg carries the collected credentials.
type SubmitMsg struct {
	Customer     bool
	CustomerCode string
	Username     string
	Password     string
}

// CancelledMsg is sent when the operator backs out.
type CancelledMsg struct{}

// Form wraps a huh login form.
type Form struct {
	form *huh.Form

	mode         string
	customerCode string
	username     string
	password     string

	status string
}

// New builds the login form.
func New() *Form {
	f := &Form{mode: "admin"}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Login as").
				Options(
					huh.NewOption("Administrator", "admin"),
					huh.NewOption("Customer", "customer"),
				).
				Value(&f.mode),
			huh.NewInput().
				Title("Customer code").
				Description("Customer logins only; leave blank for admin").
				Value(&f.customerCode),
			huh.NewInput().
				Title("Username").
				Value(&f.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(required("password")),
		),
	).WithTheme(huh.ThemeBase())
	return f
}

func required(name string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// SetStatus shows a status line under the form, e.g. a failed attempt.
func (f *Form) SetStatus(s string) {
	f.status = s
}

// Init implements tea.Model.
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model.
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		submit := SubmitMsg{
			Customer:     f.mode == "customer",
			CustomerCode: strings.TrimSpace(f.customerCode),
			Username:     strings.TrimSpace(f.username),
			Password:     f.password,
		}
		return f, func() tea.Msg { return submit }
	}
	return f, cmd
}

// View implements tea.Model.
func (f *Form) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Sign in"))
	sb.WriteString("\n")
	sb.WriteString(f.form.View())
	if f.status != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusCritical.Render(f.status))
	}
	return sb.String()
}
