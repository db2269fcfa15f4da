package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for harness operations
var (
	// ErrEnvironmentOccupied is returned when a simulator port is already in use.
	// It signals that the run should be skipped, not failed.
	ErrEnvironmentOccupied = errors.New("environment occupied")

	// ErrSpawnFailed is returned when the simulator binary could not be started
	ErrSpawnFailed = errors.New("failed to start simulator")

	// ErrChainNotReady is returned when a chain never answered within its attempt budget
	ErrChainNotReady = errors.New("chain not ready")

	// ErrSimulatorExited is returned when the simulator exits before the chains are ready
	ErrSimulatorExited = errors.New("simulator exited")

	// ErrUnknownChain is returned when looking up a chain ID that is not configured
	ErrUnknownChain = errors.New("unknown chain")

	// ErrInvalidChainID is returned when a chain ID is invalid
	ErrInvalidChainID = errors.New("invalid chain ID")
)

// PortOccupiedError reports the first configured port found in use
type PortOccupiedError struct {
	Port int
}

func (e *PortOccupiedError) Error() string {
	return fmt.Sprintf("port %d is in use", e.Port)
}

func (e *PortOccupiedError) Unwrap() error { return ErrEnvironmentOccupied }

// ChainNotReadyError reports an endpoint that exhausted its attempt budget
type ChainNotReadyError struct {
	RPCURL   string
	Attempts int
	Last     error
}

func (e *ChainNotReadyError) Error() string {
	msg := fmt.Sprintf("chain at %s not ready after %d attempts", e.RPCURL, e.Attempts)
	if e.Last != nil {
		msg += ": " + e.Last.Error()
	}
	return msg
}

func (e *ChainNotReadyError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrChainNotReady}
	}
	return []error{ErrChainNotReady, e.Last}
}

// UnknownChainError reports a lookup for an unconfigured chain ID
type UnknownChainError struct {
	ChainID uint64
}

func (e *UnknownChainError) Error() string {
	return fmt.Sprintf("chain %d is not configured", e.ChainID)
}

func (e *UnknownChainError) Unwrap() error { return ErrUnknownChain }

// IsSkip reports whether err means the environment is not applicable
// and the run should end without failing
func IsSkip(err error) bool {
	return errors.Is(err, ErrEnvironmentOccupied)
}
