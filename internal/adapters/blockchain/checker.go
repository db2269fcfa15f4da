package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/supersim-harness/internal/domain/config"
	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

// DefaultProbeTimeout bounds a single liveness query
const DefaultProbeTimeout = 5 * time.Second

// CheckerAdapter implements the ChainProber interface using ethclient
type CheckerAdapter struct {
	timeout time.Duration
}

// NewCheckerAdapter creates a new blockchain checker adapter
func NewCheckerAdapter(cfg *config.RuntimeConfig) *CheckerAdapter {
	timeout := cfg.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &CheckerAdapter{timeout: timeout}
}

// BlockNumber queries the current block height of the chain at rpcURL
func (c *CheckerAdapter) BlockNumber(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	height, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}
	return height, nil
}

// ChainID queries the chain ID reported by the node at rpcURL
func (c *CheckerAdapter) ChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// Ensure the adapter implements the interface
var _ usecase.ChainProber = (*CheckerAdapter)(nil)
