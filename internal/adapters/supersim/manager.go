package supersim

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/trebuchet-org/supersim-harness/internal/domain"
	"github.com/trebuchet-org/supersim-harness/internal/domain/config"
	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

const (
	// DefaultBinary is the simulator executable looked up on PATH
	DefaultBinary = "supersim"

	// DefaultStopGrace is how long Stop waits after SIGTERM before killing
	DefaultStopGrace = 5 * time.Second
)

// Manager launches simulator processes
type Manager struct {
	log       *slog.Logger
	stopGrace time.Duration
}

// NewManager creates a new simulator manager
func NewManager(cfg *config.RuntimeConfig, log *slog.Logger) *Manager {
	grace := cfg.StopGrace
	if grace <= 0 {
		grace = DefaultStopGrace
	}
	return &Manager{
		log:       log.With("component", "supersim"),
		stopGrace: grace,
	}
}

// Launch creates the logs directory and starts the simulator in the background.
// Its stdout and stderr are forwarded line by line to the logger.
func (m *Manager) Launch(ctx context.Context, spec domain.SimulatorSpec) (usecase.SimulatorProcess, error) {
	if spec.Binary == "" {
		spec.Binary = DefaultBinary
	}

	logsDir, err := filepath.Abs(spec.LogsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs directory: %w", err)
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	spec.LogsDir = logsDir

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Not CommandContext: the process must outlive the setup context
	cmd := exec.Command(spec.Binary, spec.Args()...)
	cmd.Stdin = nil
	stdout := newLineLogger(m.log, "stdout", slog.LevelInfo)
	stderr := newLineLogger(m.log, "stderr", slog.LevelWarn)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// Children of the simulator may hold the output pipes open after it exits
	cmd.WaitDelay = m.stopGrace

	m.log.Debug("starting simulator", "binary", spec.Binary, "args", spec.Args())
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSpawnFailed, spec.Binary, err)
	}

	proc := newProcess(cmd, m.log.With("pid", cmd.Process.Pid), m.stopGrace)
	go proc.wait(stdout, stderr)

	m.log.Info("simulator started", "pid", cmd.Process.Pid, "logs", logsDir)
	return proc, nil
}

var _ usecase.SimulatorLauncher = (*Manager)(nil)
