package login

import (
	"gsignin-cli/googleid"

	tea "github.com/charmbracelet/bubbletea"
)

// Event is a message the view model publishes to the login screen. The
// controller forwards events to the login screen whatever screen is active.
type Event interface {
	loginEvent()
}

// LoadingMsg is sent whenever the loading state changes
type LoadingMsg struct {
	IsLoading bool
}

// PickerMsg is sent when the account picker is presented at URL
type PickerMsg struct {
	URL string
}

// ResultMsg carries the result of a finished attempt
type ResultMsg struct {
	Result googleid.Result
}

func (LoadingMsg) loginEvent() {}
func (PickerMsg) loginEvent()  {}
func (ResultMsg) loginEvent()  {}

// SignInSuccessMsg asks the controller to navigate to the home screen
type SignInSuccessMsg struct{}

// SignInSuccessCommand creates a command that signals a successful sign-in
func SignInSuccessCommand() tea.Cmd {
	return func() tea.Msg {
		return SignInSuccessMsg{}
	}
}

// SignedOutMsg is sent when sign-out finishes
type SignedOutMsg struct {
	Err error
}

// attemptDoneMsg is sent when ViewModel.SignIn returns
type attemptDoneMsg struct {
	started bool
}
