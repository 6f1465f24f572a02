package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level ledgerlink.yaml configuration.
type Config struct {
	Company    string      `yaml:"company"`
	BankLedger string      `yaml:"bank_ledger"`
	Tally      TallyConfig `yaml:"tally"`
	View       ViewConfig  `yaml:"view"`
	Git        GitConfig   `yaml:"git"`
}

// TallyConfig locates the Tally server. One endpoint serves both the
// catalog export and the bulk voucher import.
type TallyConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ViewConfig holds presentation defaults.
type ViewConfig struct {
	PageSize int `yaml:"page_size"`
}

// GitConfig controls workspace versioning.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a ledgerlink.yaml file from disk and applies environment
// overrides (LEDGERLINK_TALLY_ENDPOINT, LEDGERLINK_COMPANY,
// LEDGERLINK_BANK_LEDGER).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()
	if cfg.Tally.TimeoutSeconds <= 0 {
		cfg.Tally.TimeoutSeconds = 30
	}
	if cfg.View.PageSize <= 0 {
		cfg.View.PageSize = 10
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LEDGERLINK_TALLY_ENDPOINT"); v != "" {
		c.Tally.Endpoint = v
	}
	if v := os.Getenv("LEDGERLINK_COMPANY"); v != "" {
		c.Company = v
	}
	if v := os.Getenv("LEDGERLINK_BANK_LEDGER"); v != "" {
		c.BankLedger = v
	}
}

// Timeout returns the sink call timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Tally.TimeoutSeconds) * time.Second
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(company, bankLedger string) *Config {
	return &Config{
		Company:    company,
		BankLedger: bankLedger,
		Tally: TallyConfig{
			Endpoint:       "http://localhost:9000",
			TimeoutSeconds: 30,
		},
		View: ViewConfig{
			PageSize: 10,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "ledgerlink",
			AuthorEmail: "ledgerlink@localhost",
		},
	}
}
