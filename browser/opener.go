// Package browser opens URLs in the user's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Opener launches the platform's URL handler
type Opener struct {
	goos  string
	start func(name string, args ...string) error
}

// NewOpener creates an opener for the running platform
func NewOpener() *Opener {
	return &Opener{
		goos: runtime.GOOS,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Open launches target without waiting for the browser to exit. Only http and
// https URLs are accepted.
func (o *Opener) Open(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q url", u.Scheme)
	}

	name, args := o.command(target)
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}
	return nil
}

// command picks the launcher; $BROWSER wins when set
func (o *Opener) command(target string) (string, []string) {
	if b := strings.TrimSpace(os.Getenv("BROWSER")); b != "" {
		return b, []string{target}
	}

	switch o.goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "darwin":
		return "open", []string{target}
	default: // "linux", "freebsd", "openbsd", "netbsd"
		return "xdg-open", []string{target}
	}
}
