package footer

import (
	"strings"

	"gsignin-cli/tui/styles"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Component renders the key help line under each screen
type Component struct {
	style     lipgloss.Style
	separator string
}

// New creates a new footer component
func New() *Component {
	return &Component{
		style:     styles.HelpStyle,
		separator: "  ",
	}
}

// View renders the help of each enabled binding as "[keys] description".
// Bindings without help text are skipped.
func (c *Component) View(bindings ...key.Binding) string {
	var parts []string
	for _, binding := range bindings {
		if part := Format(binding); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return c.style.Render(strings.Join(parts, c.separator))
}

// Format renders one binding, or "" when it is disabled or has no help
func Format(binding key.Binding) string {
	if !binding.Enabled() {
		return ""
	}
	help := binding.Help()
	if help.Key == "" || help.Desc == "" {
		return ""
	}
	return "[" + help.Key + "] " + help.Desc
}
