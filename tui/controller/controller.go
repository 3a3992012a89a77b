package controller

import (
	"gsignin-cli/tracing"
	"gsignin-cli/tui/home"
	"gsignin-cli/tui/keys"
	"gsignin-cli/tui/login"
	"gsignin-cli/tui/state"

	tea "github.com/charmbracelet/bubbletea"
)

// Controller owns navigation between the login and home screens
type Controller struct {
	// State management
	stateMachine *state.Machine
	keyHandler   *keys.Handler

	// Tracing integration
	tracer *tracing.Manager

	// Components
	loginComponent *login.Component
	homeComponent  *home.Component

	errorMsg string
	quitting bool
}

// New creates a controller starting on the login screen. tracer may be nil.
func New(loginComponent *login.Component, homeComponent *home.Component, tracer *tracing.Manager) *Controller {
	return &Controller{
		stateMachine:   state.NewMachine(state.Login),
		keyHandler:     keys.NewHandler(),
		tracer:         tracer,
		loginComponent: loginComponent,
		homeComponent:  homeComponent,
	}
}

// Init starts the login screen
func (c *Controller) Init() tea.Cmd {
	return c.loginComponent.Init()
}

// Update handles incoming messages and updates the controller state
func (c *Controller) Update(msg tea.Msg) (*Controller, tea.Cmd) {
	// Handle global quit
	if keyMsg, ok := msg.(tea.KeyMsg); ok && c.keyHandler.IsQuit(keyMsg) {
		c.quitting = true
		c.cleanup()
		return c, tea.Quit
	}

	switch msg := msg.(type) {
	case state.ErrorMsg:
		c.errorMsg = msg.Error.Error()
		return c, nil
	case state.TransitionMsg:
		c.errorMsg = ""
		return c, nil

	case login.Event:
		// view model events belong to the login screen whichever screen is showing
		var cmd tea.Cmd
		c.loginComponent, cmd = c.loginComponent.Update(msg)
		return c, cmd

	case login.SignInSuccessMsg:
		c.homeComponent.Refresh()
		return c, c.navigate(state.Home, "sign_in_success")

	case home.ReturnToLoginMsg:
		return c, tea.Batch(
			c.navigate(state.Login, "return_to_login"),
			c.loginComponent.SignOut(),
		)

	case login.SignedOutMsg:
		if msg.Err != nil {
			_ = c.tracer.TrackError(msg.Err, "sign_out")
		}
		var cmd tea.Cmd
		c.loginComponent, cmd = c.loginComponent.Update(msg)
		return c, cmd
	}

	return c.handleStateUpdate(msg)
}

// handleStateUpdate delegates message handling based on current state
func (c *Controller) handleStateUpdate(msg tea.Msg) (*Controller, tea.Cmd) {
	var cmd tea.Cmd
	switch c.stateMachine.Current() {
	case state.Login:
		c.loginComponent, cmd = c.loginComponent.Update(msg)
	case state.Home:
		c.homeComponent, cmd = c.homeComponent.Update(msg)
	}
	return c, cmd
}

// navigate moves to the given screen, recording the transition
func (c *Controller) navigate(to state.State, trigger string) tea.Cmd {
	from := c.stateMachine.Current()
	if from == to {
		return nil
	}
	_ = c.tracer.TrackNavigation(from.String(), to.String(), trigger)
	return c.stateMachine.NavigateTo(to)
}

// View renders the current state
func (c *Controller) View() string {
	if c.quitting {
		return c.renderQuitting()
	}

	var view string
	switch c.stateMachine.Current() {
	case state.Login:
		view = c.renderLogin()
	case state.Home:
		view = c.renderHome()
	default:
		view = "Unknown state"
	}
	if c.errorMsg != "" {
		view += "\n" + c.renderError()
	}
	return view
}

// Getters for accessing controller state
func (c *Controller) IsQuitting() bool {
	return c.quitting
}

func (c *Controller) CurrentState() state.State {
	return c.stateMachine.Current()
}

// cleanup cancels any in-flight sign-in and records the exit
func (c *Controller) cleanup() {
	c.loginComponent.Close()
	_ = c.tracer.TrackNavigation(c.stateMachine.Current().String(), "application_exit", "user_quit")
}
