package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultDuration matches a short platform toast
const DefaultDuration = 3 * time.Second

// ExpiredMsg hides the toast that was shown with ID
type ExpiredMsg struct {
	ID int
}

// Component shows one short-lived message at a time
type Component struct {
	text     string
	id       int
	duration time.Duration
	style    lipgloss.Style
}

// New creates a toast component
func New() *Component {
	return &Component{
		duration: DefaultDuration,
		style: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#ff0000")).
			Padding(0, 1),
	}
}

// Show replaces the current toast and returns the command that expires it
func (c *Component) Show(text string) tea.Cmd {
	c.id++
	c.text = text
	id := c.id
	return tea.Tick(c.duration, func(time.Time) tea.Msg {
		return ExpiredMsg{ID: id}
	})
}

// Update hides the toast when its expiry arrives. Expiries of replaced
// toasts are ignored.
func (c *Component) Update(msg tea.Msg) *Component {
	if msg, ok := msg.(ExpiredMsg); ok && msg.ID == c.id {
		c.text = ""
	}
	return c
}

// Text returns the visible message, empty when hidden
func (c *Component) Text() string {
	return c.text
}

// View renders the toast, or nothing when hidden
func (c *Component) View() string {
	if c.text == "" {
		return ""
	}
	return c.style.Render(c.text)
}
