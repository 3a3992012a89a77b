package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"gsignin-cli/log"
)

func TestRun_Dispatch(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"version", []string{"version"}, 0, version, ""},
		{"help", []string{"--help"}, 0, "Usage: gsignin", ""},
		{"help describes signout", []string{"help"}, 0, "signout   forget the remembered account", ""},
		{"unknown command", []string{"frobnicate"}, 2, "", `unknown command "frobnicate"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(tt.args, &stdout, &stderr)

			if code != tt.wantCode {
				t.Errorf("Expected exit code %d, got %d", tt.wantCode, code)
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("Expected stdout to contain %q, got %q", tt.wantStdout, stdout.String())
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("Expected stderr to contain %q, got %q", tt.wantStderr, stderr.String())
			}
		})
	}
}

func TestReport(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(io.Discard) })

	tests := []struct {
		name       string
		command    string
		err        error
		wantCode   int
		wantLogged string
		wantStderr string
	}{
		{"success", "whoami", nil, 0, "", ""},
		{"command failure", "signout", errors.New("revoke failed"), 1, "command=signout", "Error: revoke failed"},
		{"tui failure", "", errors.New("no tty"), 1, "command=tui", "Error: no tty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()
			var stderr bytes.Buffer

			code := report(tt.command, tt.err, &stderr)

			if code != tt.wantCode {
				t.Errorf("Expected exit code %d, got %d", tt.wantCode, code)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("Expected stderr to contain %q, got %q", tt.wantStderr, stderr.String())
			}
			if !strings.Contains(logs.String(), tt.wantLogged) {
				t.Errorf("Expected log to contain %q, got %q", tt.wantLogged, logs.String())
			}
			if tt.err == nil && logs.Len() != 0 {
				t.Errorf("Expected nothing logged on success, got %q", logs.String())
			}
		})
	}
}
