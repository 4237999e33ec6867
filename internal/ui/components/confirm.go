package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"emotrack/internal/ui/theme"
)

// ConfirmAcceptMsg is emitted when the user accepts the prompt.
type ConfirmAcceptMsg struct{}

// ConfirmCancelMsg is emitted when the user declines or dismisses it.
type ConfirmCancelMsg struct{}

var confirmStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Peach).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(0, 1)

// Confirm is a modal yes/no prompt. While visible it swallows all key
// input, so a stray keypress cannot reach the dashboard underneath.
type Confirm struct {
	question string
	visible  bool
	width    int
}

func NewConfirm() Confirm {
	return Confirm{}
}

func (c Confirm) Visible() bool { return c.visible }

// Open shows the prompt with the given question.
func (c *Confirm) Open(question string) {
	c.question = question
	c.visible = true
}

func (c *Confirm) SetWidth(w int) { c.width = w }

func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	if !c.visible {
		return c, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y", "enter":
			c.visible = false
			return c, func() tea.Msg { return ConfirmAcceptMsg{} }
		case "n", "N", "esc":
			c.visible = false
			return c, func() tea.Msg { return ConfirmCancelMsg{} }
		}
	}
	return c, nil
}

func (c Confirm) View() string {
	if !c.visible {
		return ""
	}
	body := theme.Title.Render(c.question) + "\n" +
		theme.Muted.Render("y/enter: yes   n/esc: no")
	w := c.width
	if w < 20 {
		w = 48
	}
	return confirmStyle.Width(w - 2).Render(body)
}
