// ABOUTME: Tabular resource browser for the dashboard
// ABOUTME: Renders rows with cursor navigation and a filter input

package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/polarisoffice/secuone-console/internal/tui/styles"
)

// BackMsg is sent when the operator leaves the browser.
type BackMsg struct{}

// RefreshMsg asks the app to reload the current resource.
type RefreshMsg struct{}

type state int

const (
	stateTable state = iota
	stateFilter
)

// Browser shows one resource as a scrollable table.
type Browser struct {
	title   string
	columns []string
	widths  []int
	rows    [][]string

	cursor   int
	offset   int
	height   int
	state    state
	filter   textinput.Model
	filtered [][]string
}

// New builds a browser over the given rows. Column widths are fixed by
// the caller so related resources line up the same way between loads.
func New(title string, columns []string, widths []int, rows [][]string) *Browser {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.CharLimit = 64
	ti.Width = 32

	b := &Browser{
		title:   title,
		columns: columns,
		widths:  widths,
		rows:    rows,
		height:  20,
		filter:  ti,
	}
	b.applyFilter()
	return b
}

// SetHeight bounds how many rows are visible at once.
func (b *Browser) SetHeight(h int) {
	if h < 4 {
		h = 4
	}
	b.height = h
}

// Selected returns the row under the cursor, or nil.
func (b *Browser) Selected() []string {
	if b.cursor < 0 || b.cursor >= len(b.filtered) {
		return nil
	}
	return b.filtered[b.cursor]
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}
	if b.state == stateFilter {
		return b.updateFilter(keyMsg)
	}
	return b.updateTable(keyMsg)
}

func (b *Browser) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < len(b.filtered)-1 {
			b.cursor++
		}
	case "g":
		b.cursor = 0
	case "G":
		b.cursor = len(b.filtered) - 1
		if b.cursor < 0 {
			b.cursor = 0
		}
	case "/":
		b.state = stateFilter
		b.filter.Focus()
		return b, textinput.Blink
	case "r":
		return b, func() tea.Msg { return RefreshMsg{} }
	case "b", "esc":
		return b, func() tea.Msg { return BackMsg{} }
	}
	b.clampScroll()
	return b, nil
}

func (b *Browser) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		b.state = stateTable
		b.filter.Blur()
		b.filter.SetValue("")
		b.applyFilter()
		return b, nil
	case "enter":
		b.state = stateTable
		b.filter.Blur()
		return b, nil
	}
	var cmd tea.Cmd
	b.filter, cmd = b.filter.Update(msg)
	b.applyFilter()
	return b, cmd
}

// applyFilter keeps rows whose cells contain the filter text.
func (b *Browser) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(b.filter.Value()))
	if needle == "" {
		b.filtered = b.rows
	} else {
		b.filtered = nil
		for _, row := range b.rows {
			for _, cell := range row {
				if strings.Contains(strings.ToLower(cell), needle) {
					b.filtered = append(b.filtered, row)
					break
				}
			}
		}
	}
	if b.cursor >= len(b.filtered) {
		b.cursor = len(b.filtered) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	b.clampScroll()
}

func (b *Browser) clampScroll() {
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+b.height {
		b.offset = b.cursor - b.height + 1
	}
	if b.offset < 0 {
		b.offset = 0
	}
}

// View implements tea.Model.
func (b *Browser) View() string {
	var sb strings.Builder
	heading := b.title
	if len(b.filtered) != len(b.rows) {
		heading = fmt.Sprintf("%s (%d/%d)", b.title, len(b.filtered), len(b.rows))
	}
	sb.WriteString(styles.Title.Render(heading))
	sb.WriteString("\n")

	if b.state == stateFilter || b.filter.Value() != "" {
		sb.WriteString("/" + b.filter.View())
		sb.WriteString("\n")
	}

	sb.WriteString(styles.Subtitle.Render(b.formatRow(b.columns)))
	sb.WriteString("\n")

	if len(b.filtered) == 0 {
		sb.WriteString(styles.Subtitle.Render("No rows."))
		sb.WriteString("\n")
	}

	end := b.offset + b.height
	if end > len(b.filtered) {
		end = len(b.filtered)
	}
	for i := b.offset; i < end; i++ {
		line := b.formatRow(b.filtered[i])
		if i == b.cursor {
			line = styles.SelectedRow.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString(styles.Help.Render("↑↓ move · / filter · r refresh · b back · q quit"))
	return sb.String()
}

func (b *Browser) formatRow(cells []string) string {
	parts := make([]string, 0, len(cells))
	for i, cell := range cells {
		width := 16
		if i < len(b.widths) {
			width = b.widths[i]
		}
		parts = append(parts, pad(cell, width))
	}
	return strings.Join(parts, " ")
}

// pad fits s to exactly width runes, truncating with an ellipsis.
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width <= 1 {
			return string(r[:width])
		}
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}
