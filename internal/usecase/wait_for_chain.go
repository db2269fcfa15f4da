package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/supersim-harness/internal/domain"
	"github.com/trebuchet-org/supersim-harness/internal/domain/config"
)

const (
	// DefaultMaxAttempts is the readiness attempt budget per chain
	DefaultMaxAttempts = 10

	// DefaultPollInterval is the pause between readiness attempts
	DefaultPollInterval = time.Second
)

// sleepFunc pauses for d or until ctx is done
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitForChain polls a chain endpoint until it answers a block number query
type WaitForChain struct {
	prober   ChainProber
	interval time.Duration
	sleep    sleepFunc
	log      *slog.Logger
	progress ProgressSink
}

// NewWaitForChain creates a new readiness poller
func NewWaitForChain(prober ChainProber, cfg *config.RuntimeConfig, log *slog.Logger, progress ProgressSink) *WaitForChain {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &WaitForChain{
		prober:   prober,
		interval: interval,
		sleep:    sleepContext,
		log:      log,
		progress: progress,
	}
}

// Execute probes endpoint up to maxAttempts times, pausing between failed
// attempts. It returns as soon as a probe succeeds. A non-positive
// maxAttempts uses DefaultMaxAttempts.
func (w *WaitForChain) Execute(ctx context.Context, endpoint domain.ChainEndpoint, maxAttempts int) (*domain.ChainReadiness, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	readiness := &domain.ChainReadiness{
		Endpoint: endpoint,
		State:    domain.ReadinessNotReady,
	}
	log := w.log.With("chain", endpoint.ChainID, "rpc", endpoint.RPCURL)
	key := fmt.Sprintf("chain-%d", endpoint.ChainID)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		readiness.Attempts = attempt
		log.Debug("probing chain", "attempt", attempt, "max", maxAttempts)

		height, err := w.prober.BlockNumber(ctx, endpoint.RPCURL)
		if err == nil {
			readiness.State = domain.ReadinessReady
			readiness.BlockNumber = height
			log.Info("chain is ready", "attempt", attempt, "block", height)
			w.progress.OnProgress(ctx, ProgressEvent{
				Stage:    "ready",
				Current:  attempt,
				Total:    maxAttempts,
				Message:  fmt.Sprintf("chain %d ready at block %d", endpoint.ChainID, height),
				Metadata: key,
			})
			return readiness, nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			readiness.State = domain.ReadinessFailed
			readiness.Err = ctxErr
			return readiness, ctxErr
		}

		log.Debug("chain not ready yet", "attempt", attempt, "err", err)
		w.progress.OnProgress(ctx, ProgressEvent{
			Stage:    "waiting",
			Current:  attempt,
			Total:    maxAttempts,
			Message:  fmt.Sprintf("waiting for chain %d (attempt %d/%d)", endpoint.ChainID, attempt, maxAttempts),
			Spinner:  true,
			Metadata: key,
		})

		if attempt == maxAttempts {
			break
		}
		if err := w.sleep(ctx, w.interval); err != nil {
			readiness.State = domain.ReadinessFailed
			readiness.Err = err
			return readiness, err
		}
	}

	notReady := &domain.ChainNotReadyError{
		RPCURL:   endpoint.RPCURL,
		Attempts: maxAttempts,
		Last:     lastErr,
	}
	readiness.State = domain.ReadinessFailed
	readiness.Err = notReady
	log.Warn("chain not ready", "attempts", maxAttempts, "err", lastErr)
	return readiness, notReady
}
