package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/trebuchet-org/supersim-harness/internal/domain"
	"github.com/trebuchet-org/supersim-harness/internal/domain/config"
)

// Environment is a running simulator with all configured chains ready.
// It is returned by Setup and consumed by Teardown.
type Environment struct {
	Process   SimulatorProcess
	Endpoints []domain.ChainEndpoint
	LogsDir   string
	Readiness []*domain.ChainReadiness
}

// SetupEnvironment owns the simulator lifecycle for a test run
type SetupEnvironment struct {
	cfg      *config.RuntimeConfig
	ports    *CheckPorts
	launcher SimulatorLauncher
	waiter   *WaitForChain
	log      *slog.Logger
	progress ProgressSink
}

// NewSetupEnvironment creates a new environment orchestrator
func NewSetupEnvironment(
	cfg *config.RuntimeConfig,
	ports *CheckPorts,
	launcher SimulatorLauncher,
	waiter *WaitForChain,
	log *slog.Logger,
	progress ProgressSink,
) *SetupEnvironment {
	return &SetupEnvironment{
		cfg:      cfg,
		ports:    ports,
		launcher: launcher,
		waiter:   waiter,
		log:      log,
		progress: progress,
	}
}

// Setup checks the ports, launches the simulator and waits for every chain.
// An occupied port returns an error matching domain.ErrEnvironmentOccupied
// before anything is launched. Any later failure stops the simulator before
// the error is returned.
func (s *SetupEnvironment) Setup(ctx context.Context) (*Environment, error) {
	s.progress.OnProgress(ctx, ProgressEvent{Stage: "ports", Metadata: "setup", Message: "Checking simulator ports...", Spinner: true})
	if err := s.ports.EnsurePortsFree(ctx, s.cfg.Ports); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.cfg.LogsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	s.log.Info("simulator logs directory", "dir", s.cfg.LogsDir)

	s.progress.OnProgress(ctx, ProgressEvent{Stage: "launch", Metadata: "setup", Message: "Starting supersim...", Spinner: true})
	proc, err := s.launcher.Launch(ctx, s.cfg.Spec())
	if err != nil {
		s.log.Error("failed to start simulator", "err", err)
		return nil, err
	}
	s.progress.OnProgress(ctx, ProgressEvent{
		Stage:    "launched",
		Metadata: "setup",
		Message:  fmt.Sprintf("supersim started (PID %d), logs in %s", proc.PID(), s.cfg.LogsDir),
	})

	readiness, err := s.waitForChains(ctx, proc)
	if err != nil {
		s.log.Error("simulator setup failed", "err", err)
		s.stop(ctx, proc)
		return nil, err
	}

	s.progress.Info(fmt.Sprintf("All %d chains ready", len(s.cfg.Chains)))
	return &Environment{
		Process:   proc,
		Endpoints: s.cfg.Chains,
		LogsDir:   s.cfg.LogsDir,
		Readiness: readiness,
	}, nil
}

// Teardown stops the simulator held by env. A nil env or one without a
// process is a no-op. Failures are logged, never returned.
func (s *SetupEnvironment) Teardown(ctx context.Context, env *Environment) {
	if env == nil || env.Process == nil {
		return
	}
	s.stop(ctx, env.Process)
}

// waitForChains polls every endpoint concurrently. The first failure, or the
// simulator exiting, cancels the remaining polls.
func (s *SetupEnvironment) waitForChains(ctx context.Context, proc SimulatorProcess) ([]*domain.ChainReadiness, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	readiness := make([]*domain.ChainReadiness, len(s.cfg.Chains))
	g, gctx := errgroup.WithContext(ctx)
	for i, endpoint := range s.cfg.Chains {
		g.Go(func() error {
			r, err := s.waiter.Execute(gctx, endpoint, s.cfg.MaxAttempts)
			readiness[i] = r
			return err
		})
	}

	result := make(chan error, 1)
	go func() { result <- g.Wait() }()

	select {
	case err := <-result:
		return readiness, err
	case <-proc.Done():
		cancel()
		<-result
		return readiness, fmt.Errorf("simulator exited before chains were ready: %w", proc.Err())
	}
}

// stop is best effort: it survives a cancelled parent context
func (s *SetupEnvironment) stop(ctx context.Context, proc SimulatorProcess) {
	if err := proc.Stop(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("failed to stop simulator", "pid", proc.PID(), "err", err)
	}
}
