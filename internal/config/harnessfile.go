package config

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// HarnessFileName is the optional project-level configuration file
const HarnessFileName = "supersim.toml"

// HarnessFile is the raw supersim.toml structure. Durations are strings
// such as "1s" or "500ms".
type HarnessFile struct {
	Binary       string            `toml:"binary"`
	ExtraArgs    []string          `toml:"extra_args"`
	LogsDir      string            `toml:"logs_dir"`
	Ports        []int             `toml:"ports"`
	MaxAttempts  int               `toml:"max_attempts"`
	PollInterval string            `toml:"poll_interval"`
	ProbeTimeout string            `toml:"probe_timeout"`
	DialTimeout  string            `toml:"dial_timeout"`
	StopGrace    string            `toml:"stop_grace"`
	LogLevel     string            `toml:"log_level"`
	Chains       map[string]string `toml:"chains"`
}

// loadHarnessFile loads .env files and parses supersim.toml if it exists.
// Returns (nil, nil) when supersim.toml does not exist.
func loadHarnessFile(projectRoot string) (*HarnessFile, error) {
	// Load .env files first for variable expansion
	for _, envFile := range []string{".env", ".env.local"} {
		path := filepath.Join(projectRoot, envFile)
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", path, err)
			}
		}
	}

	path := filepath.Join(projectRoot, HarnessFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var file HarnessFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", HarnessFileName, err)
	}

	file.Binary = os.ExpandEnv(file.Binary)
	file.LogsDir = os.ExpandEnv(file.LogsDir)
	for id, url := range file.Chains {
		file.Chains[id] = os.ExpandEnv(url)
	}
	return &file, nil
}

// applyDefaults layers the file values over the built-in defaults.
// Environment variables and flags still take precedence.
func (f *HarnessFile) applyDefaults(v *viper.Viper) {
	setString := func(key, value string) {
		if value != "" {
			v.SetDefault(key, value)
		}
	}

	setString("binary", f.Binary)
	setString("logs_dir", f.LogsDir)
	setString("poll_interval", f.PollInterval)
	setString("probe_timeout", f.ProbeTimeout)
	setString("dial_timeout", f.DialTimeout)
	setString("stop_grace", f.StopGrace)
	setString("log_level", f.LogLevel)

	if len(f.ExtraArgs) > 0 {
		v.SetDefault("extra_args", f.ExtraArgs)
	}
	if f.MaxAttempts != 0 {
		v.SetDefault("max_attempts", f.MaxAttempts)
	}
	if len(f.Ports) > 0 {
		v.SetDefault("ports", lo.Map(f.Ports, func(p int, _ int) string { return strconv.Itoa(p) }))
	}
	if len(f.Chains) > 0 {
		v.SetDefault("chains", f.chainEntries())
	}
}

// chainEntries renders the [chains] table as "id=url" entries ordered by
// numeric chain ID. Non-numeric keys sort last and fail validation later.
func (f *HarnessFile) chainEntries() []string {
	ids := lo.Keys(f.Chains)
	slices.SortFunc(ids, func(a, b string) int {
		na, errA := strconv.ParseUint(a, 10, 64)
		nb, errB := strconv.ParseUint(b, 10, 64)
		switch {
		case errA != nil && errB != nil:
			return cmp.Compare(a, b)
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return cmp.Compare(na, nb)
	})
	return lo.Map(ids, func(id string, _ int) string { return id + "=" + f.Chains[id] })
}
