package usecase

import (
	"context"

	"github.com/trebuchet-org/supersim-harness/internal/domain"
)

// PortChecker probes local TCP ports for prior occupancy
type PortChecker interface {
	CheckPortFree(ctx context.Context, port int) bool
}

// ChainProber issues lightweight liveness queries against a chain RPC endpoint
type ChainProber interface {
	BlockNumber(ctx context.Context, rpcURL string) (uint64, error)
	ChainID(ctx context.Context, rpcURL string) (uint64, error)
}

// SimulatorLauncher starts the external simulator process
type SimulatorLauncher interface {
	Launch(ctx context.Context, spec domain.SimulatorSpec) (SimulatorProcess, error)
}

// SimulatorProcess is a handle on a running simulator
type SimulatorProcess interface {
	PID() int
	Done() <-chan struct{}
	Err() error
	Stop(ctx context.Context) error
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
