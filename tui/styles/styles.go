package styles

import (
	"github.com/charmbracelet/lipgloss"
	btable "github.com/evertras/bubble-table/table"
)

// Colors
var (
	Primary    = lipgloss.Color("#00ff00") // Bright green
	Secondary  = lipgloss.Color("#00aa00") // Darker green
	Accent     = lipgloss.Color("#00ffaa") // Cyan-green
	ErrorColor = lipgloss.Color("#ff0000") // Red
	Background = lipgloss.Color("#000000") // Black
)

// Common Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	LoginBoxStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).
			Padding(1, 4).
			Width(60)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(Background).
			Background(Primary).
			Bold(true).
			Padding(0, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Faint(true)

	URLStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Underline(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true).
			Padding(0, 1)
)

// Account table columns on the home screen
const (
	ColumnField = "field"
	ColumnValue = "value"
)

var AccountTableColumns = []btable.Column{
	btable.NewColumn(ColumnField, "Field", 14),
	btable.NewColumn(ColumnValue, "Value", 48),
}

// Banner is the title shown above the login box
func Banner(version string) string {
	title := lipgloss.NewStyle().Foreground(Primary).Bold(true).Render(`
   ____  ____  _                 ___
  / ___|/ ___|(_) __ _ _ __     |_ _|_ __
 | |  _ \___ \| |/ _' | '_ \     | || '_ \
 | |_| | ___) | | (_| | | | |    | || | | |
  \____||____/|_|\__, |_| |_|   |___|_| |_|
                 |___/`)
	if version == "" {
		return title
	}
	return title + "\n" + HelpStyle.Render("version "+version)
}
