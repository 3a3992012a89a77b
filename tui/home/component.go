package home

import (
	"gsignin-cli/config"
	"gsignin-cli/tui/components/footer"
	"gsignin-cli/tui/keys"
	"gsignin-cli/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	btable "github.com/evertras/bubble-table/table"
)

// AccountSource provides the account that signed in
type AccountSource interface {
	CurrentAccount() (*config.Account, bool)
}

// ReturnToLoginMsg asks the controller to go back to the login screen and sign out
type ReturnToLoginMsg struct{}

// Component is the home screen shown after a successful sign-in
type Component struct {
	accounts AccountSource
	account  *config.Account
	table    btable.Model
	keys     *keys.Handler
	bindings *keys.FooterBindings
	footer   *footer.Component
}

// New creates the home screen
func New(accounts AccountSource) *Component {
	return &Component{
		accounts: accounts,
		table:    btable.New(styles.AccountTableColumns).Focused(true),
		keys:     keys.NewHandler(),
		bindings: keys.NewFooterBindings(),
		footer:   footer.New(),
	}
}

// Refresh reloads the account from the source
func (c *Component) Refresh() {
	c.account = nil
	if c.accounts != nil {
		if account, ok := c.accounts.CurrentAccount(); ok {
			c.account = account
		}
	}
	c.table = c.table.WithRows(accountRows(c.account))
}

// Account returns the account being shown, nil when unknown
func (c *Component) Account() *config.Account {
	return c.account
}

// Update handles messages for the home screen
func (c *Component) Update(msg tea.Msg) (*Component, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && c.keys.IsBack(keyMsg) {
		return c, func() tea.Msg { return ReturnToLoginMsg{} }
	}

	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

// View renders the home screen
func (c *Component) View() string {
	view := styles.HeaderStyle.Render("You are signed in") + "\n\n"
	if c.account == nil {
		view += styles.HelpStyle.Render("Account details are not available.") + "\n"
	} else {
		view += c.table.View() + "\n"
	}
	return view + "\n" + c.footer.View(c.bindings.Home()...)
}

func accountRows(account *config.Account) []btable.Row {
	var rows []btable.Row
	for _, f := range account.Fields() {
		rows = append(rows, btable.NewRow(btable.RowData{
			styles.ColumnField: f.Name,
			styles.ColumnValue: f.Value,
		}))
	}
	return rows
}
