package supersim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/trebuchet-org/supersim-harness/internal/domain"
	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

// Process is a running simulator owned by the harness
type Process struct {
	cmd   *exec.Cmd
	log   *slog.Logger
	grace time.Duration

	done    chan struct{}
	waitErr error

	stopOnce sync.Once
	stopErr  error
}

func newProcess(cmd *exec.Cmd, log *slog.Logger, grace time.Duration) *Process {
	return &Process{
		cmd:   cmd,
		log:   log,
		grace: grace,
		done:  make(chan struct{}),
	}
}

// PID returns the OS process ID
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Done is closed once the process has exited
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Err returns why the process exited. It is nil while the process is running.
func (p *Process) Err() error {
	select {
	case <-p.done:
	default:
		return nil
	}
	if p.waitErr != nil {
		return fmt.Errorf("%w: %v", domain.ErrSimulatorExited, p.waitErr)
	}
	return domain.ErrSimulatorExited
}

// Stop sends SIGTERM, waits up to the grace period, then kills the process.
// Calling Stop on an exited process is a no-op.
func (p *Process) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		p.stopErr = p.stop(ctx)
	})
	return p.stopErr
}

func (p *Process) stop(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	default:
	}

	p.log.Debug("stopping simulator")
	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			<-p.done
			return nil
		}
		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	timer := time.NewTimer(p.grace)
	defer timer.Stop()

	select {
	case <-p.done:
	case <-timer.C:
		// Force kill if SIGTERM didn't work in time
		p.log.Warn("simulator did not exit after SIGTERM, killing", "grace", p.grace)
		_ = p.cmd.Process.Kill()
		<-p.done
	case <-ctx.Done():
		_ = p.cmd.Process.Kill()
		<-p.done
		return ctx.Err()
	}

	p.log.Info("simulator stopped")
	return nil
}

// wait reaps the process and flushes any unterminated output line
func (p *Process) wait(outputs ...*lineLogger) {
	p.waitErr = p.cmd.Wait()
	for _, out := range outputs {
		out.Flush()
	}
	if p.waitErr != nil {
		p.log.Debug("simulator exited", "err", p.waitErr)
	} else {
		p.log.Debug("simulator exited")
	}
	close(p.done)
}

var _ usecase.SimulatorProcess = (*Process)(nil)
