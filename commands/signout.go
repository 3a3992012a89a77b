package commands

import (
	"context"
	"fmt"
	"io"
)

// SignOutService clears credential state
type SignOutService interface {
	SignOut(ctx context.Context) error
}

// SignOutCmd forgets the remembered account
type SignOutCmd struct {
	service SignOutService
	out     io.Writer
}

// NewSignOutCmd creates a new instance of SignOutCmd
func NewSignOutCmd(service SignOutService, out io.Writer) *SignOutCmd {
	return &SignOutCmd{service: service, out: out}
}

// Execute runs the signout command
func (c *SignOutCmd) Execute(args []string) error {
	if err := c.service.SignOut(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Signed out.")
	return nil
}
