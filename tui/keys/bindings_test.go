package keys

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestHandler_Matches(t *testing.T) {
	h := NewHandler()

	tests := []struct {
		name  string
		msg   tea.KeyMsg
		check func(tea.KeyMsg) bool
		want  bool
	}{
		{"q quits", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, h.IsQuit, true},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, h.IsQuit, true},
		{"enter signs in", tea.KeyMsg{Type: tea.KeyEnter}, h.IsSignIn, true},
		{"esc cancels", tea.KeyMsg{Type: tea.KeyEsc}, h.IsCancel, true},
		{"b is back", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")}, h.IsBack, true},
		{"b does not cancel", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")}, h.IsCancel, false},
		{"o reopens", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")}, h.IsReopen, true},
		{"j is down", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}, h.IsDown, true},
		{"up arrow is up", tea.KeyMsg{Type: tea.KeyUp}, h.IsUp, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.msg); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFooterBindings(t *testing.T) {
	f := NewFooterBindings()

	idle := f.Login(false)
	if len(idle) != 2 || idle[0].Help().Desc != "sign in with Google" {
		t.Errorf("Unexpected idle login bindings: %+v", idle)
	}
	signingIn := f.Login(true)
	if len(signingIn) != 3 || signingIn[1].Help().Key != "esc" {
		t.Errorf("Unexpected signing-in bindings: %+v", signingIn)
	}
	home := f.Home()
	if len(home) != 4 || home[2].Help().Desc != "return to login" {
		t.Errorf("Unexpected home bindings: %+v", home)
	}
}
