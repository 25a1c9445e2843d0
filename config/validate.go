package config

import (
	"fmt"
	"strings"

	"unichain/observability/logging"
	"unichain/storage"
)

// ValidateConfig rejects settings the node cannot start with.
func ValidateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("config: nil")
	}
	switch c.DBBackend {
	case storage.BackendMemory:
	case storage.BackendLevelDB, storage.BackendBolt:
		if strings.TrimSpace(c.DataDir) == "" {
			return fmt.Errorf("config: DataDir required for %s backend", c.DBBackend)
		}
	default:
		return fmt.Errorf("config: unknown DBBackend %q", c.DBBackend)
	}
	if c.Execution.AddressPrefix == 0 {
		return fmt.Errorf("execution: AddressPrefix must be set")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("logging: rotation limits must not be negative")
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry: SampleRatio must be within [0,1]")
	}
	return nil
}
