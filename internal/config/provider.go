package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/supersim-harness/internal/domain"
	"github.com/trebuchet-org/supersim-harness/internal/domain/config"
	"github.com/trebuchet-org/supersim-harness/pkg/superchain"
)

const (
	// EnvPrefix is the prefix of every environment override
	EnvPrefix = "SUPERSIM"

	// DefaultLogsDir is where the simulator writes its logs, relative to the project root
	DefaultLogsDir = ".logs"
)

// DefaultChains are the two interop chains supersim starts out of the box
var DefaultChains = []string{
	"901=http://localhost:9545",
	"902=http://localhost:9546",
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	file, err := loadHarnessFile(projectRoot)
	if err != nil {
		return nil, err
	}
	source := "defaults"
	if file != nil {
		source = HarnessFileName
		file.applyDefaults(v)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		ConfigSource:   source,
		Binary:         strings.TrimSpace(v.GetString("binary")),
		ExtraArgs:      v.GetStringSlice("extra_args"),
		LogsDir:        v.GetString("logs_dir"),
		MaxAttempts:    v.GetInt("max_attempts"),
		PollInterval:   v.GetDuration("poll_interval"),
		ProbeTimeout:   v.GetDuration("probe_timeout"),
		DialTimeout:    v.GetDuration("dial_timeout"),
		StopGrace:      v.GetDuration("stop_grace"),
		LogLevel:       strings.ToLower(v.GetString("log_level")),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
	}

	if !filepath.IsAbs(cfg.LogsDir) {
		cfg.LogsDir = filepath.Join(projectRoot, cfg.LogsDir)
	}
	if cfg.Debug && cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	cfg.Chains, err = parseChains(splitList(v.GetStringSlice("chains")))
	if err != nil {
		return nil, err
	}

	cfg.Ports, err = parsePorts(splitList(v.GetStringSlice("ports")))
	if err != nil {
		return nil, err
	}
	if len(cfg.Ports) == 0 {
		if cfg.Ports, err = derivePorts(cfg.Chains); err != nil {
			return nil, err
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a resolved configuration for values the harness cannot run with
func Validate(cfg *config.RuntimeConfig) error {
	if cfg.Binary == "" {
		return fmt.Errorf("invalid config: simulator binary must not be empty")
	}
	if cfg.MaxAttempts <= 0 {
		return fmt.Errorf("invalid config: max_attempts must be positive, got %d", cfg.MaxAttempts)
	}
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("invalid config: poll_interval must be positive, got %s", cfg.PollInterval)
	}
	if len(cfg.Chains) == 0 {
		return fmt.Errorf("invalid config: at least one chain is required")
	}
	for _, chain := range cfg.Chains {
		if _, err := chain.Port(); err != nil {
			return fmt.Errorf("invalid config: chain %d: %w", chain.ChainID, err)
		}
	}
	for _, port := range cfg.Ports {
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid config: port %d out of range", port)
		}
	}
	return nil
}

// FindProjectRoot walks up from the current directory looking for
// supersim.toml, then foundry.toml. Outside of any project the current
// directory is used.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for _, marker := range []string{HarnessFileName, "foundry.toml"} {
		dir := cwd
		for {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return cwd, nil
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("project_root", projectRoot)
	v.SetDefault("binary", "supersim")
	v.SetDefault("extra_args", []string{})
	v.SetDefault("logs_dir", DefaultLogsDir)
	v.SetDefault("chains", DefaultChains)
	v.SetDefault("ports", []string{})
	v.SetDefault("max_attempts", 10)
	v.SetDefault("poll_interval", time.Second)
	v.SetDefault("probe_timeout", 5*time.Second)
	v.SetDefault("dial_timeout", time.Second)
	v.SetDefault("stop_grace", 5*time.Second)
	v.SetDefault("log_level", "")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)

	return v
}

// BindFlags copies every flag the user changed on cmd into v.
// Flag names map to keys with dashes replaced by underscores.
func BindFlags(v *viper.Viper, cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			v.Set(key, sv.GetSlice())
			return
		}
		v.Set(key, f.Value.String())
	})
}

// splitList flattens comma separated entries, as found in env vars
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseChains turns "id=url" entries into endpoints, keeping their order
func parseChains(entries []string) ([]domain.ChainEndpoint, error) {
	endpoints := make([]domain.ChainEndpoint, 0, len(entries))
	for _, entry := range entries {
		id, url, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid chain %q: expected <chain-id>=<rpc-url>", entry)
		}
		chainID, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain %q: %w: %v", entry, domain.ErrInvalidChainID, err)
		}
		endpoints = append(endpoints, domain.ChainEndpoint{
			ChainID: chainID,
			RPCURL:  os.ExpandEnv(strings.TrimSpace(url)),
		})
	}

	chains, err := superchain.NewConfigFromEndpoints(endpoints)
	if err != nil {
		return nil, fmt.Errorf("invalid chains: %w", err)
	}
	return chains.Endpoints(), nil
}

func parsePorts(entries []string) ([]int, error) {
	ports := make([]int, 0, len(entries))
	for _, entry := range entries {
		port, err := strconv.Atoi(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q: %w", entry, err)
		}
		ports = append(ports, port)
	}
	return lo.Uniq(ports), nil
}

// derivePorts returns the distinct ports of the chain endpoints, in chain order
func derivePorts(chains []domain.ChainEndpoint) ([]int, error) {
	ports := make([]int, 0, len(chains))
	for _, chain := range chains {
		port, err := chain.Port()
		if err != nil {
			return nil, fmt.Errorf("invalid config: chain %d: %w", chain.ChainID, err)
		}
		ports = append(ports, port)
	}
	return lo.Uniq(ports), nil
}
