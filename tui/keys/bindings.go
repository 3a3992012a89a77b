package keys

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// GlobalKeyMap defines the key bindings used across both screens
type GlobalKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	SignIn key.Binding
	Cancel key.Binding
	Reopen key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// DefaultGlobalKeys returns the default global key bindings
func DefaultGlobalKeys() GlobalKeyMap {
	return GlobalKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		SignIn: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "sign in with Google"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Reopen: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "reopen browser"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "return to login"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Handler answers "is this key X" for the screens
type Handler struct {
	keys GlobalKeyMap
}

// NewHandler creates a new key handler with default bindings
func NewHandler() *Handler {
	return &Handler{
		keys: DefaultGlobalKeys(),
	}
}

// IsQuit returns true if the key message is a quit command
func (h *Handler) IsQuit(msg tea.KeyMsg) bool {
	return key.Matches(msg, h.keys.Quit)
}

// IsSignIn returns true if the key message starts a sign-in
func (h *Handler) IsSignIn(msg tea.KeyMsg) bool {
	return key.Matches(msg, h.keys.SignIn)
}

// IsCancel returns true if the key message cancels an in-flight sign-in
func (h *Handler) IsCancel(msg tea.KeyMsg) bool {
	return key.Matches(msg, h.keys.Cancel)
}

// IsReopen returns true if the key message reopens the account picker
func (h *Handler) IsReopen(msg tea.KeyMsg) bool {
	return key.Matches(msg, h.keys.Reopen)
}

// IsBack returns true if the key message is a back command
func (h *Handler) IsBack(msg tea.KeyMsg) bool {
	return key.Matches(msg, h.keys.Back)
}

// IsUp returns true if the key message is an up command
func (h *Handler) IsUp(msg tea.KeyMsg) bool {
	return key.Matches(msg, h.keys.Up)
}

// IsDown returns true if the key message is a down command
func (h *Handler) IsDown(msg tea.KeyMsg) bool {
	return key.Matches(msg, h.keys.Down)
}

// FooterBindings picks the bindings shown in each screen's footer
type FooterBindings struct {
	keys GlobalKeyMap
}

// NewFooterBindings creates a new footer bindings helper
func NewFooterBindings() *FooterBindings {
	return &FooterBindings{keys: DefaultGlobalKeys()}
}

// Login returns bindings for the login screen. signingIn switches to the
// set shown while the account picker is open.
func (f *FooterBindings) Login(signingIn bool) []key.Binding {
	if signingIn {
		return []key.Binding{f.keys.Reopen, f.keys.Cancel, f.keys.Quit}
	}
	return []key.Binding{f.keys.SignIn, f.keys.Quit}
}

// Home returns bindings for the home screen
func (f *FooterBindings) Home() []key.Binding {
	return []key.Binding{f.keys.Up, f.keys.Down, f.keys.Back, f.keys.Quit}
}
