package controller

import (
	"gsignin-cli/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// View rendering functions

func (c *Controller) renderQuitting() string {
	return lipgloss.NewStyle().
		Foreground(styles.ErrorColor).
		Bold(true).
		Render("Goodbye!") + "\n"
}

func (c *Controller) renderLogin() string {
	return c.loginComponent.View()
}

func (c *Controller) renderHome() string {
	return c.homeComponent.View()
}

func (c *Controller) renderError() string {
	return styles.ErrorStyle.Render(c.errorMsg)
}
