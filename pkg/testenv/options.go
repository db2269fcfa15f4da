package testenv

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

// Option customizes Setup
type Option func(*options)

type options struct {
	projectRoot string
	overrides   map[string]any
	sink        usecase.ProgressSink
}

func newOptions(opts []Option) *options {
	o := &options{
		overrides: make(map[string]any),
		sink:      usecase.NopProgress{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithProjectRoot sets the directory holding supersim.toml and the logs directory
func WithProjectRoot(dir string) Option {
	return func(o *options) { o.projectRoot = dir }
}

// WithOverride sets a configuration key such as "binary" or "max_attempts",
// taking precedence over files and environment
func WithOverride(key string, value any) Option {
	return func(o *options) { o.overrides[key] = value }
}

// WithChains replaces the configured chains
func WithChains(chains map[uint64]string) Option {
	ids := make([]uint64, 0, len(chains))
	for id := range chains {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, fmt.Sprintf("%d=%s", id, chains[id]))
	}
	return WithOverride("chains", entries)
}

// WithPolling sets the readiness attempt budget and the pause between attempts
func WithPolling(maxAttempts int, interval time.Duration) Option {
	return func(o *options) {
		o.overrides["max_attempts"] = maxAttempts
		o.overrides["poll_interval"] = interval
	}
}

// WithBinary sets the simulator executable and any extra arguments
func WithBinary(binary string, extraArgs ...string) Option {
	return func(o *options) {
		o.overrides["binary"] = strings.TrimSpace(binary)
		if len(extraArgs) > 0 {
			o.overrides["extra_args"] = extraArgs
		}
	}
}
