package config

import (
	"time"

	"github.com/trebuchet-org/supersim-harness/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	ConfigSource string // supersim.toml or "defaults"

	// Simulator settings
	Binary    string
	ExtraArgs []string
	LogsDir   string // absolute

	// Chains and the ports that must be free before launch
	Chains []domain.ChainEndpoint
	Ports  []int

	// Readiness polling
	MaxAttempts  int
	PollInterval time.Duration
	ProbeTimeout time.Duration

	// Probing and teardown
	DialTimeout time.Duration
	StopGrace   time.Duration

	// Execution settings
	LogLevel       string
	Debug          bool
	NonInteractive bool
}

// Spec returns the simulator launch description for this configuration
func (c *RuntimeConfig) Spec() domain.SimulatorSpec {
	return domain.SimulatorSpec{
		Binary:    c.Binary,
		LogsDir:   c.LogsDir,
		ExtraArgs: c.ExtraArgs,
	}
}
