package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"gsignin-cli/credential"
)

// ErrMissingClientID is returned by Load when no OAuth client ID is configured
var ErrMissingClientID = errors.New("no Google client ID configured (set GOOGLE_CLIENT_ID or client_id in config.yml)")

// ConfigManager handles configuration operations. It also remembers the
// account the broker last authorized.
type ConfigManager struct {
	mu  sync.Mutex
	now func() time.Time
}

// NewConfigManager creates a new config manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{now: time.Now}
}

// Load reads the config file and applies environment overrides. A missing
// config file is not an error.
func (c *ConfigManager) Load() (Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg, err := readConfig()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	loadEnv()
	applyEnv(&cfg)

	if cfg.ClientID == "" {
		return cfg, ErrMissingClientID
	}
	return cfg, nil
}

// CurrentAccount returns the remembered account, if any
func (c *ConfigManager) CurrentAccount() (*Account, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg, err := readConfig()
	if err != nil || cfg.Account == nil {
		return nil, false
	}
	return cfg.Account, true
}

// LoginHint returns the email of the remembered account
func (c *ConfigManager) LoginHint() string {
	account, ok := c.CurrentAccount()
	if !ok {
		return ""
	}
	return account.Email
}

// SaveAccount remembers the account behind cred while preserving other settings
func (c *ConfigManager) SaveAccount(cred credential.IDTokenCredential) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg, err := readConfig()
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Config{}
	} else if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg.Account = &Account{
		Subject:    cred.Subject,
		Email:      cred.ID,
		Name:       cred.DisplayName,
		Picture:    cred.ProfilePictureURI,
		Domain:     cred.HostedDomain,
		SignedInAt: c.now().UTC(),
	}
	return writeConfig(cfg)
}

// ClearAccount forgets the remembered account. Clearing when nothing is
// remembered is a no-op.
func (c *ConfigManager) ClearAccount() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg, err := readConfig()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if cfg.Account == nil {
		return nil
	}

	cfg.Account = nil
	return writeConfig(cfg)
}
