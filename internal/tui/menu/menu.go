// ABOUTME: Resource selection menu for the dashboard
// ABOUTME: Lets the operator pick which backend resource to browse

package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/polarisoffice/secuone-console/internal/tui/styles"
)

// Resource is one browsable backend resource.
type Resource int

const (
	ResourceCustomers Resource = iota
	ResourceContacts
	ResourceNotices
	ResourceNewsletters
	ResourceDirectAds
	ResourcePolarLetters
	ResourceEvents
)

// ResourceSelectedMsg is sent when the operator picks a resource.
type ResourceSelectedMsg struct {
	Resource Resource
}

// CancelledMsg is sent when the operator backs out of the menu.
type CancelledMsg struct{}

type option struct {
	label      string
	value      Resource
	adminOnly  bool
	accessible bool
}

// Menu is the resource selection screen.
type Menu struct {
	options []option
	cursor  int
}

// New builds the menu. Admin-only resources are shown but disabled for
// customer sessions.
func New(admin bool) *Menu {
	opts := []option{
		{label: "Customers", value: ResourceCustomers, adminOnly: true},
		{label: "Contacts", value: ResourceContacts, adminOnly: true},
		{label: "Notices", value: ResourceNotices},
		{label: "Newsletters", value: ResourceNewsletters},
		{label: "Direct ads", value: ResourceDirectAds, adminOnly: true},
		{label: "PolarLetters", value: ResourcePolarLetters},
		{label: "Security events", value: ResourceEvents},
	}
	for i := range opts {
		opts[i].accessible = admin || !opts[i].adminOnly
	}
	return &Menu{options: opts}
}

// Update implements tea.Model.
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		opt := m.options[m.cursor]
		if !opt.accessible {
			return m, nil
		}
		return m, func() tea.Msg { return ResourceSelectedMsg{Resource: opt.value} }
	case "q", "esc":
		return m, func() tea.Msg { return CancelledMsg{} }
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Menu) Init() tea.Cmd {
	return nil
}

// View implements tea.Model.
func (m *Menu) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Select a resource"))
	sb.WriteString("\n\n")
	for i, opt := range m.options {
		cursor := "  "
		label := opt.label
		if !opt.accessible {
			label += " (admin only)"
		}
		switch {
		case i == m.cursor && opt.accessible:
			cursor = "> "
			label = styles.SelectedRow.Render(label)
		case i == m.cursor:
			cursor = "> "
			label = styles.Subtitle.Render(label)
		case !opt.accessible:
			label = styles.Subtitle.Render(label)
		}
		sb.WriteString(cursor + label + "\n")
	}
	sb.WriteString(styles.Help.Render("↑↓ navigate · enter select · q quit"))
	return sb.String()
}

// String returns the resource's short name.
func (r Resource) String() string {
	switch r {
	case ResourceCustomers:
		return "customers"
	case ResourceContacts:
		return "contacts"
	case ResourceNotices:
		return "notices"
	case ResourceNewsletters:
		return "newsletters"
	case ResourceDirectAds:
		return "directads"
	case ResourcePolarLetters:
		return "polarletters"
	case ResourceEvents:
		return "events"
	default:
		return "unknown"
	}
}

// Title returns the resource's display heading.
func (r Resource) Title() string {
	switch r {
	case ResourceCustomers:
		return "Customers"
	case ResourceContacts:
		return "Contacts"
	case ResourceNotices:
		return "Notices"
	case ResourceNewsletters:
		return "Newsletters"
	case ResourceDirectAds:
		return "Direct ads"
	case ResourcePolarLetters:
		return "PolarLetters"
	case ResourceEvents:
		return "Security events"
	default:
		return "Unknown"
	}
}
