package commands

import (
	"errors"
	"fmt"
	"io"

	"gsignin-cli/config"

	"github.com/olekukonko/tablewriter"
)

// ErrNotSignedIn is returned when no account is remembered
var ErrNotSignedIn = errors.New("not signed in")

// AccountSource provides the remembered account
type AccountSource interface {
	CurrentAccount() (*config.Account, bool)
}

// WhoamiCmd prints the account that last signed in
type WhoamiCmd struct {
	accounts AccountSource
	out      io.Writer
}

// NewWhoamiCmd creates a new instance of WhoamiCmd
func NewWhoamiCmd(accounts AccountSource, out io.Writer) *WhoamiCmd {
	return &WhoamiCmd{accounts: accounts, out: out}
}

// Execute runs the whoami command
func (c *WhoamiCmd) Execute(args []string) error {
	account, ok := c.accounts.CurrentAccount()
	if !ok {
		return ErrNotSignedIn
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Field", "Value")
	for _, f := range account.Fields() {
		if err := table.Append([]string{f.Name, f.Value}); err != nil {
			return fmt.Errorf("failed to format account: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to print account: %w", err)
	}
	return nil
}
