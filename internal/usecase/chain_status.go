package usecase

import (
	"context"
	"sync"

	"github.com/trebuchet-org/supersim-harness/internal/domain"
	"github.com/trebuchet-org/supersim-harness/internal/domain/config"
)

// ChainStatus takes a one-shot snapshot of every configured chain
type ChainStatus struct {
	cfg     *config.RuntimeConfig
	checker PortChecker
	prober  ChainProber
}

// NewChainStatus creates a new chain status use case
func NewChainStatus(cfg *config.RuntimeConfig, checker PortChecker, prober ChainProber) *ChainStatus {
	return &ChainStatus{
		cfg:     cfg,
		checker: checker,
		prober:  prober,
	}
}

// ChainStatusResult contains the status of all configured chains
type ChainStatusResult struct {
	Chains []domain.ChainStatus `json:"chains" yaml:"chains"`
}

// Ready reports whether every chain answered
func (r *ChainStatusResult) Ready() bool {
	for _, c := range r.Chains {
		if !c.Responding {
			return false
		}
	}
	return len(r.Chains) > 0
}

// Execute probes all chains concurrently, once each
func (c *ChainStatus) Execute(ctx context.Context) (*ChainStatusResult, error) {
	result := &ChainStatusResult{
		Chains: make([]domain.ChainStatus, len(c.cfg.Chains)),
	}

	var wg sync.WaitGroup
	for i, endpoint := range c.cfg.Chains {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result.Chains[i] = c.probe(ctx, endpoint)
		}()
	}
	wg.Wait()

	return result, ctx.Err()
}

func (c *ChainStatus) probe(ctx context.Context, endpoint domain.ChainEndpoint) domain.ChainStatus {
	status := domain.ChainStatus{Endpoint: endpoint}

	port, err := endpoint.Port()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Port = port
	status.PortInUse = !c.checker.CheckPortFree(ctx, port)

	height, err := c.prober.BlockNumber(ctx, endpoint.RPCURL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Responding = true
	status.BlockNumber = height

	if reported, err := c.prober.ChainID(ctx, endpoint.RPCURL); err == nil {
		status.ReportedChainID = reported
	}
	return status
}
