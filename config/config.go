package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"unichain/core/actuator"
	"unichain/crypto"
	"unichain/observability/logging"
	"unichain/observability/otel"
	"unichain/storage"
)

type Config struct {
	DataDir     string    `toml:"DataDir"`
	DBBackend   string    `toml:"DBBackend"`
	GenesisFile string    `toml:"GenesisFile"`
	Environment string    `toml:"Environment"`
	Execution   Execution `toml:"execution"`
	Logging     Logging   `toml:"logging"`
	Telemetry   Telemetry `toml:"telemetry"`
}

// Load loads the configuration from the given path, writing the defaults
// there first when the file does not exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration written for a fresh node.
func Default() *Config {
	return &Config{
		DataDir:     "./unichain-data",
		DBBackend:   storage.BackendLevelDB,
		GenesisFile: "genesis.yaml",
		Environment: "local",
		Execution: Execution{
			AddressPrefix:   crypto.DefaultAddressPrefix,
			CheckFrozenTime: 1,
		},
		Logging: Logging{Level: "info"},
	}
}

// ActuatorConfig returns the execution settings for the actuators.
func (c *Config) ActuatorConfig() actuator.Config {
	return actuator.Config{
		AddressPrefix:   c.Execution.AddressPrefix,
		CheckFrozenTime: c.Execution.CheckFrozenTime,
	}
}

// LoggingOptions maps the logging section onto the log setup options.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      c.Logging.Level,
		File:       c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
	}
}

// TelemetryConfig maps the telemetry section onto the exporter settings.
func (c *Config) TelemetryConfig(service string) otel.Config {
	return otel.Config{
		ServiceName: service,
		Environment: c.Environment,
		Endpoint:    c.Telemetry.Endpoint,
		Insecure:    c.Telemetry.Insecure,
		Headers:     otel.ParseHeaders(c.Telemetry.Headers),
		Traces:      c.Telemetry.Traces,
		Metrics:     c.Telemetry.Metrics,
		SampleRatio: c.Telemetry.SampleRatio,

		LedgerBackend:   c.DBBackend,
		AddressPrefix:   c.Execution.AddressPrefix,
		CheckFrozenTime: c.Execution.CheckFrozenTime,
	}
}

func (c *Config) normalize() {
	c.DBBackend = strings.ToLower(strings.TrimSpace(c.DBBackend))
	if c.DBBackend == "" {
		c.DBBackend = storage.BackendLevelDB
	}
	if strings.TrimSpace(c.Environment) == "" {
		c.Environment = "local"
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "info"
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := Default()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
