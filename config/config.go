package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic("Unable to determine user home directory")
	}

	ConfigDir = filepath.Join(homeDir, ".gsignin")
	if err := os.MkdirAll(ConfigDir, 0700); err != nil {
		panic("Unable to create .gsignin directory")
	}

	ConfigFilePath = filepath.Join(ConfigDir, "config.yml")
}

var (
	ConfigDir      string
	ConfigFilePath string
)

// Account is the last account authorized through the credential broker
type Account struct {
	Subject    string    `yaml:"subject"`
	Email      string    `yaml:"email"`
	Name       string    `yaml:"name"`
	Picture    string    `yaml:"picture,omitempty"`
	Domain     string    `yaml:"domain,omitempty"`
	SignedInAt time.Time `yaml:"signed_in_at"`
}

// Field is one labelled piece of account information
type Field struct {
	Name  string
	Value string
}

// Fields lists the account details that are set, in display order
func (a *Account) Fields() []Field {
	if a == nil {
		return nil
	}

	all := []Field{
		{"Name", a.Name},
		{"Email", a.Email},
		{"Subject", a.Subject},
		{"Domain", a.Domain},
		{"Picture", a.Picture},
	}
	if !a.SignedInAt.IsZero() {
		all = append(all, Field{"Signed in", a.SignedInAt.Local().Format(time.RFC1123)})
	}

	var fields []Field
	for _, f := range all {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Config represents the application configuration
type Config struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret,omitempty"`
	Issuer       string   `yaml:"issuer,omitempty"`
	HostedDomain string   `yaml:"hosted_domain,omitempty"`
	Scopes       []string `yaml:"scopes,omitempty"`
	CallbackPort int      `yaml:"callback_port,omitempty"`
	Account      *Account `yaml:"account,omitempty"`
}

// LogFilePath is where the application log is written while the TUI owns the terminal
func LogFilePath() string {
	return filepath.Join(ConfigDir, "gsignin.log")
}

// TraceDir is where local trace sessions are written
func TraceDir() string {
	return filepath.Join(ConfigDir, "traces")
}

// readConfig reads the configuration from the config file
// This is private - use ConfigManager methods instead
func readConfig() (Config, error) {
	var config Config
	data, err := os.ReadFile(ConfigFilePath)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(data, &config)
	return config, err
}

// writeConfig writes the configuration to the config file
// This is private - use ConfigManager methods instead
func writeConfig(config Config) error {
	data, err := yaml.Marshal(&config)
	if err != nil {
		return err
	}
	return os.WriteFile(ConfigFilePath, data, 0600)
}
