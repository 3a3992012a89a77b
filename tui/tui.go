package tui

import (
	"gsignin-cli/tracing"
	"gsignin-cli/tui/controller"
	"gsignin-cli/tui/home"
	"gsignin-cli/tui/login"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options holds everything the application model is built from
type Options struct {
	Service  login.SignInService
	Accounts home.AccountSource
	Tracer   *tracing.Manager
	Opener   login.URLOpener
	Version  string
}

// --- Model ---
type model struct {
	controller *controller.Controller
	width      int
	height     int
}

// --- Initial Model ---
func InitialModel(opts Options) model {
	vm := login.NewViewModel(opts.Service, opts.Tracer)
	loginComponent := login.New(vm, opts.Opener, opts.Version)
	homeComponent := home.New(opts.Accounts)

	return model{
		controller: controller.New(loginComponent, homeComponent, opts.Tracer),
	}
}

func (m model) Init() tea.Cmd {
	return m.controller.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}

	var cmd tea.Cmd
	m.controller, cmd = m.controller.Update(msg)
	return m, cmd
}

func (m model) View() string {
	view := m.controller.View()
	if m.width == 0 || m.height == 0 || m.controller.IsQuitting() {
		return view
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}
