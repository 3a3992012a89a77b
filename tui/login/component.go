package login

import (
	"context"
	"strings"

	"gsignin-cli/credential"
	"gsignin-cli/googleid"
	"gsignin-cli/log"
	"gsignin-cli/tui/components/footer"
	"gsignin-cli/tui/components/toast"
	"gsignin-cli/tui/keys"
	"gsignin-cli/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// URLOpener shows a URL to the user, normally in their browser
type URLOpener interface {
	Open(url string) error
}

// Component is the login screen. It is also the credential.ActivityProvider
// the broker presents the account picker on.
type Component struct {
	vm       *ViewModel
	opener   URLOpener
	version  string
	keys     *keys.Handler
	bindings *keys.FooterBindings
	footer   *footer.Component
	toast    *toast.Component
	spinner  spinner.Model

	events      chan tea.Msg
	unsubscribe []func()

	loading   bool
	pickerURL string
	cancel    context.CancelFunc
}

// New creates the login screen on top of vm. opener may be nil, in which
// case the picker URL is only displayed.
func New(vm *ViewModel, opener URLOpener, version string) *Component {
	c := &Component{
		vm:       vm,
		opener:   opener,
		version:  version,
		keys:     keys.NewHandler(),
		bindings: keys.NewFooterBindings(),
		footer:   footer.New(),
		toast:    toast.New(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(styles.SpinnerStyle),
		),
		events: make(chan tea.Msg, 16),
	}

	c.unsubscribe = append(c.unsubscribe,
		vm.UIState().Observe(func(s ViewState) {
			c.events <- LoadingMsg{IsLoading: s.IsLoading}
		}),
		vm.Result().Observe(func(r googleid.Result) {
			if r != googleid.Unset {
				c.events <- ResultMsg{Result: r}
			}
		}),
	)
	return c
}

// Activity returns the surface the account picker is presented on
func (c *Component) Activity() credential.Surface {
	return credential.SurfaceFunc(func(ctx context.Context, pickerURL string) error {
		select {
		case c.events <- PickerMsg{URL: pickerURL}:
		case <-ctx.Done():
			return ctx.Err()
		}
		c.openBrowser(pickerURL)
		return nil
	})
}

// Init starts listening for view model events
func (c *Component) Init() tea.Cmd {
	return c.waitForEvent()
}

// Update handles messages for the login screen
func (c *Component) Update(msg tea.Msg) (*Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case c.keys.IsSignIn(msg):
			if c.cancel != nil {
				return c, nil
			}
			ctx, cancel := context.WithCancel(context.Background())
			c.cancel = cancel
			return c, c.signIn(ctx)
		case c.keys.IsCancel(msg):
			if c.cancel != nil {
				log.LogDebug("Cancelling sign-in at user request")
				c.cancel()
			}
			return c, nil
		case c.keys.IsReopen(msg):
			if c.pickerURL != "" {
				url := c.pickerURL
				return c, func() tea.Msg {
					c.openBrowser(url)
					return nil
				}
			}
			return c, nil
		}

	case LoadingMsg:
		c.loading = msg.IsLoading
		if c.loading {
			return c, tea.Batch(c.waitForEvent(), c.spinner.Tick)
		}
		c.pickerURL = ""
		return c, c.waitForEvent()

	case PickerMsg:
		c.pickerURL = msg.URL
		return c, c.waitForEvent()

	case ResultMsg:
		if msg.Result == googleid.Success {
			return c, tea.Batch(c.waitForEvent(), SignInSuccessCommand())
		}
		if msg.Result.IsError() {
			return c, tea.Batch(c.waitForEvent(), c.toast.Show(msg.Result.Message()))
		}
		return c, c.waitForEvent()

	case attemptDoneMsg:
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		return c, nil

	case SignedOutMsg:
		if msg.Err != nil {
			return c, c.toast.Show("Signed out locally, but the provider session could not be revoked.")
		}
		return c, nil

	case spinner.TickMsg:
		if !c.loading {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case toast.ExpiredMsg:
		c.toast.Update(msg)
		return c, nil
	}

	return c, nil
}

// SignOut returns a command that clears the credential state
func (c *Component) SignOut() tea.Cmd {
	return func() tea.Msg {
		return SignedOutMsg{Err: c.vm.SignOut(context.Background())}
	}
}

// IsLoading reports whether a sign-in attempt is in flight
func (c *Component) IsLoading() bool {
	return c.loading
}

// PickerURL returns the URL of the account picker being presented
func (c *Component) PickerURL() string {
	return c.pickerURL
}

// Toast returns the visible toast text, empty when none
func (c *Component) Toast() string {
	return c.toast.Text()
}

// Close cancels an in-flight attempt and detaches from the view model
func (c *Component) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil
}

// View renders the login screen
func (c *Component) View() string {
	var content strings.Builder

	if c.loading {
		content.WriteString(c.spinner.View() + " Waiting for you to choose a Google account...\n")
		if c.pickerURL != "" {
			content.WriteString("\n" + styles.HelpStyle.Render("If your browser did not open, visit:") + "\n")
			content.WriteString(styles.URLStyle.Render(c.pickerURL) + "\n")
		}
	} else {
		content.WriteString(styles.HeaderStyle.Render("Welcome") + "\n\n")
		content.WriteString("Sign in to continue.\n\n")
		content.WriteString(styles.ButtonStyle.Render("G  Sign in with Google") + "\n")
	}

	content.WriteString("\n" + c.footer.View(c.bindings.Login(c.loading)...))

	view := styles.Banner(c.version) + "\n\n" + styles.LoginBoxStyle.Render(content.String())
	if t := c.toast.View(); t != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, t)
	}
	return view
}

func (c *Component) signIn(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		return attemptDoneMsg{started: c.vm.SignIn(ctx, c)}
	}
}

func (c *Component) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-c.events
	}
}

func (c *Component) openBrowser(url string) {
	if c.opener == nil {
		return
	}
	if err := c.opener.Open(url); err != nil {
		log.LogWarnWithFields("login", "Failed to open browser", map[string]any{"error": err.Error()})
	}
}
