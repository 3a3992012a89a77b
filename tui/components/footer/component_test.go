package footer

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func binding(keys, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys), key.WithHelp(keys, desc))
}

func TestFormat(t *testing.T) {
	disabled := binding("o", "reopen browser")
	disabled.SetEnabled(false)

	tests := []struct {
		name     string
		binding  key.Binding
		expected string
	}{
		{"valid binding", binding("q", "quit"), "[q] quit"},
		{"no help key", key.NewBinding(key.WithKeys("q"), key.WithHelp("", "quit")), ""},
		{"no help description", key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "")), ""},
		{"no help at all", key.NewBinding(key.WithKeys("q")), ""},
		{"disabled", disabled, ""},
		{"multi-key help", key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "return to login")), "[esc/b] return to login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			result := Format(tt.binding)

			// Assert
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestComponent_View_EmptyBindings(t *testing.T) {
	// Arrange
	component := New()

	// Act
	result := component.View()

	// Assert
	if result != "" {
		t.Errorf("Expected empty string for no bindings, got '%s'", result)
	}
}

func TestComponent_View_MultipleBindings(t *testing.T) {
	// Arrange
	component := New()

	// Act
	result := component.View(binding("enter", "sign in with Google"), binding("q", "quit"))

	// Assert
	for _, part := range []string{"[enter] sign in with Google", "[q] quit"} {
		if !strings.Contains(result, part) {
			t.Errorf("Expected result to contain '%s', got '%s'", part, result)
		}
	}
	if !strings.Contains(result, "sign in with Google  [q]") {
		t.Errorf("Expected bindings separated by two spaces, got '%s'", result)
	}
}

func TestComponent_View_SkipsUnrenderableBindings(t *testing.T) {
	// Arrange
	component := New()
	hidden := binding("o", "reopen browser")
	hidden.SetEnabled(false)

	// Act
	result := component.View(binding("q", "quit"), hidden, key.NewBinding(key.WithKeys("x")), binding("esc", "cancel"))

	// Assert
	if strings.Contains(result, "reopen") {
		t.Error("Expected disabled binding to be hidden")
	}
	if !strings.Contains(result, "[q] quit  [esc] cancel") {
		t.Errorf("Expected no gap left by skipped bindings, got '%s'", result)
	}
}

func TestComponent_View_OnlyUnrenderableBindings(t *testing.T) {
	// Arrange
	component := New()

	// Act
	result := component.View(key.NewBinding(key.WithKeys("x")))

	// Assert
	if result != "" {
		t.Errorf("Expected empty footer, got '%s'", result)
	}
}
