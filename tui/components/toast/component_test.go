package toast

import (
	"strings"
	"testing"
)

func TestComponent_ShowAndExpire(t *testing.T) {
	// Arrange
	c := New()

	// Act
	cmd := c.Show("We encountered an unexpected issue.")

	// Assert
	if cmd == nil {
		t.Fatal("Expected an expiry command")
	}
	if !strings.Contains(c.View(), "unexpected issue") {
		t.Errorf("Expected toast text in view, got %q", c.View())
	}

	c.Update(ExpiredMsg{ID: 1})
	if c.Text() != "" || c.View() != "" {
		t.Error("Expected toast to be hidden after expiry")
	}
}

func TestComponent_StaleExpiryIgnored(t *testing.T) {
	// Arrange
	c := New()
	c.Show("first")
	c.Show("second")

	// Act
	c.Update(ExpiredMsg{ID: 1})

	// Assert
	if c.Text() != "second" {
		t.Errorf("Expected second toast to survive the first expiry, got %q", c.Text())
	}
}
