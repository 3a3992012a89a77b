package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gsignin-cli/auth"
	"gsignin-cli/browser"
	"gsignin-cli/commands"
	"gsignin-cli/config"
	"gsignin-cli/credential"
	"gsignin-cli/googleid"
	"gsignin-cli/log"
	"gsignin-cli/tracing"
	"gsignin-cli/tui"

	tea "github.com/charmbracelet/bubbletea"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const usage = `Usage: gsignin [command]

Commands:
  (none)    open the sign-in screen
  whoami    print the account that last signed in
  signout   forget the remembered account
  version   print the version
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	command := ""
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "version", "--version":
		fmt.Fprintln(stdout, version)
		return 0
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	case "", "whoami", "signout":
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", command, usage)
		return 2
	}

	if logFile, err := log.OpenFile(config.LogFilePath()); err == nil {
		defer logFile.Close()
	}
	log.Logf("Starting gsignin %s", version)

	configManager := config.NewConfigManager()

	if command == "whoami" {
		return report(command, commands.NewWhoamiCmd(configManager, stdout).Execute(args[1:]), stderr)
	}

	cfg, err := configManager.Load()
	if err != nil {
		if errors.Is(err, config.ErrMissingClientID) {
			fmt.Fprintf(stderr, "%v\nCreate an OAuth client at https://console.cloud.google.com/apis/credentials\n", err)
			return 1
		}
		return report(command, err, stderr)
	}
	service := newService(cfg, configManager)

	if command == "signout" {
		return report(command, commands.NewSignOutCmd(service, stdout).Execute(args[1:]), stderr)
	}

	tracer, err := tracing.NewLocalManager(tracing.DefaultConfig(config.TraceDir()), version)
	if err != nil {
		log.LogWarn("Tracing disabled: %v", err)
	}
	defer tracer.Close()

	model := tui.InitialModel(tui.Options{
		Service:  service,
		Accounts: configManager,
		Tracer:   tracer,
		Opener:   browser.NewOpener(),
		Version:  version,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return report(command, err, stderr)
	}
	return 0
}

// newService wires the loopback broker to the Google ID adapter
func newService(cfg config.Config, configManager *config.ConfigManager) *auth.Service {
	broker := credential.NewLoopbackManager(credential.LoopbackConfig{
		Issuer:       cfg.Issuer,
		ClientSecret: cfg.ClientSecret,
		Scopes:       cfg.Scopes,
		CallbackPort: cfg.CallbackPort,
	}, configManager)
	adapter := googleid.NewAdapter(cfg.ClientID, cfg.HostedDomain)
	return auth.NewService(broker, adapter)
}

func report(command string, err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if command == "" {
		command = "tui"
	}
	log.LogErrorWithFields("main", "Command failed", map[string]any{
		"command": command,
		"error":   err.Error(),
	})
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}
