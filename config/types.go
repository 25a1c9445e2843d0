package config

// Execution carries the contract execution knobs handed to the actuators.
type Execution struct {
	// AddressPrefix is the network byte every raw address must start with.
	AddressPrefix uint8 `toml:"AddressPrefix"`
	// CheckFrozenTime enforces freeze duration bounds when set to 1.
	CheckFrozenTime int `toml:"CheckFrozenTime"`
}

// Logging controls the structured log output.
type Logging struct {
	Level      string `toml:"Level"`
	File       string `toml:"File,omitempty"`
	MaxSizeMB  int    `toml:"MaxSizeMB,omitempty"`
	MaxBackups int    `toml:"MaxBackups,omitempty"`
	MaxAgeDays int    `toml:"MaxAgeDays,omitempty"`
}

// Telemetry configures OTLP export of traces and metrics.
type Telemetry struct {
	Endpoint    string  `toml:"Endpoint,omitempty"`
	Insecure    bool    `toml:"Insecure"`
	Headers     string  `toml:"Headers,omitempty"`
	Traces      bool    `toml:"Traces"`
	Metrics     bool    `toml:"Metrics"`
	SampleRatio float64 `toml:"SampleRatio"`
}
