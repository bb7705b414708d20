/*
Package config loads server configuration.

SOURCES (later wins):
  1. Defaults()
  2. YAML file (optional; a missing file is not an error)
  3. Environment: WALLET_PORT, WALLET_LOG_LEVEL, WALLET_LOG_FILE,
     WALLET_JOURNAL_PATH, WALLET_SCENARIO, WALLET_SETTLEMENT_ENABLED
  4. Command-line flags (applied by cmd/server)

EXAMPLE FILE:
  server:
    port: 8080
  limits:
    min_deposit: "1"
    max_deposit: "100000"
    min_withdrawal: "10"
    scale: 2
  log:
    level: debug
    file: ./logs/wallet.log
  journal:
    path: ./data/journal.db
  settlement:
    enabled: true
    interval: 1m
    after: 24h
  scenario: demo
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/wallet-engine/logging"
	"github.com/warp/wallet-engine/wallet"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Limits     LimitsConfig     `yaml:"limits"`
	Log        logging.Config   `yaml:"log"`
	Journal    JournalConfig    `yaml:"journal"`
	Settlement SettlementConfig `yaml:"settlement"`
	Scenario   string           `yaml:"scenario"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// LimitsConfig holds decimal strings so YAML never round-trips money through floats.
type LimitsConfig struct {
	MinDeposit    string `yaml:"min_deposit"`
	MaxDeposit    string `yaml:"max_deposit"`
	MinWithdrawal string `yaml:"min_withdrawal"`
	Scale         int32  `yaml:"scale"` // decimal places of the currency
}

type JournalConfig struct {
	Path string `yaml:"path"` // empty disables the SQLite journal
}

// SettlementConfig drives the background settler of pending withdrawals.
// Durations are Go duration strings ("90s", "24h").
type SettlementConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	After    time.Duration `yaml:"after"`
}

func Defaults() Config {
	limits := wallet.DefaultLimits()
	return Config{
		Server: ServerConfig{Port: 8080},
		Limits: LimitsConfig{
			MinDeposit:    limits.MinDeposit.String(),
			MaxDeposit:    limits.MaxDeposit.String(),
			MinWithdrawal: limits.MinWithdrawal.String(),
			Scale:         limits.Scale,
		},
		Log:        logging.Config{Level: "info", MaxSizeMB: 50, MaxBackups: 5, MaxAgeDays: 28},
		Settlement: SettlementConfig{Interval: time.Minute, After: 24 * time.Hour},
		Scenario:   "demo",
	}
}

// Load reads path on top of Defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults only
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if _, err := cfg.WalletLimits(); err != nil {
		return Config{}, err
	}
	if cfg.Settlement.Enabled && cfg.Settlement.Interval <= 0 {
		return Config{}, errors.New("settlement.interval must be positive")
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("WALLET_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WALLET_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("WALLET_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("WALLET_LOG_FILE"); ok {
		c.Log.File = v
	}
	if v, ok := lookup("WALLET_JOURNAL_PATH"); ok {
		c.Journal.Path = v
	}
	if v, ok := lookup("WALLET_SCENARIO"); ok {
		c.Scenario = v
	}
	if v, ok := lookup("WALLET_SETTLEMENT_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WALLET_SETTLEMENT_ENABLED: %w", err)
		}
		c.Settlement.Enabled = enabled
	}
	return nil
}

// WalletLimits parses the limit strings. Empty strings mean zero (disabled).
func (c Config) WalletLimits() (wallet.Limits, error) {
	parse := func(name, s string) (decimal.Decimal, error) {
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("limits.%s: %w", name, err)
		}
		if d.IsNegative() {
			return decimal.Zero, fmt.Errorf("limits.%s: must not be negative", name)
		}
		return d, nil
	}

	var (
		l   wallet.Limits
		err error
	)
	if l.MinDeposit, err = parse("min_deposit", c.Limits.MinDeposit); err != nil {
		return l, err
	}
	if l.MaxDeposit, err = parse("max_deposit", c.Limits.MaxDeposit); err != nil {
		return l, err
	}
	if l.MinWithdrawal, err = parse("min_withdrawal", c.Limits.MinWithdrawal); err != nil {
		return l, err
	}
	if c.Limits.Scale < 0 || c.Limits.Scale > wallet.MaxAmountExponent {
		return l, fmt.Errorf("limits.scale: must be between 0 and %d", wallet.MaxAmountExponent)
	}
	l.Scale = c.Limits.Scale
	return l, nil
}
