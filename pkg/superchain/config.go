// Package superchain is a small multi-chain contract client used by the
// integration suite: a chain configuration, key-backed wallets and contracts
// that can be deployed to and called on any configured chain.
package superchain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/supersim-harness/internal/domain"
)

// ErrUnknownChain is returned by RPCURL for unconfigured chain IDs
var ErrUnknownChain = domain.ErrUnknownChain

// Config resolves chain IDs to RPC endpoints
type Config interface {
	ChainIDs() []uint64
	RPCURL(chainID uint64) (string, error)
}

// StandardConfig is an immutable chain ID -> RPC URL table
type StandardConfig struct {
	ids  []uint64
	urls map[uint64]string
}

// NewStandardConfig builds a config from a chain table. Chain IDs are
// reported in ascending order.
func NewStandardConfig(chains map[uint64]string) *StandardConfig {
	ids := lo.Keys(chains)
	slices.Sort(ids)

	urls := make(map[uint64]string, len(chains))
	for id, url := range chains {
		urls[id] = url
	}
	return &StandardConfig{ids: ids, urls: urls}
}

// NewConfigFromEndpoints builds a config that keeps the given endpoint order
func NewConfigFromEndpoints(endpoints []domain.ChainEndpoint) (*StandardConfig, error) {
	cfg := &StandardConfig{
		ids:  make([]uint64, 0, len(endpoints)),
		urls: make(map[uint64]string, len(endpoints)),
	}
	for _, ep := range endpoints {
		if ep.ChainID == 0 {
			return nil, fmt.Errorf("%w: chain ID must be positive", domain.ErrInvalidChainID)
		}
		if strings.TrimSpace(ep.RPCURL) == "" {
			return nil, fmt.Errorf("chain %d has an empty RPC URL", ep.ChainID)
		}
		if _, dup := cfg.urls[ep.ChainID]; dup {
			return nil, fmt.Errorf("chain %d configured more than once", ep.ChainID)
		}
		cfg.ids = append(cfg.ids, ep.ChainID)
		cfg.urls[ep.ChainID] = ep.RPCURL
	}
	return cfg, nil
}

// ChainIDs returns the configured chain IDs
func (c *StandardConfig) ChainIDs() []uint64 {
	return slices.Clone(c.ids)
}

// RPCURL returns the RPC URL configured for chainID
func (c *StandardConfig) RPCURL(chainID uint64) (string, error) {
	url, ok := c.urls[chainID]
	if !ok {
		return "", &domain.UnknownChainError{ChainID: chainID}
	}
	return url, nil
}

// Endpoints returns the configured endpoints in ChainIDs order
func (c *StandardConfig) Endpoints() []domain.ChainEndpoint {
	return lo.Map(c.ids, func(id uint64, _ int) domain.ChainEndpoint {
		return domain.ChainEndpoint{ChainID: id, RPCURL: c.urls[id]}
	})
}
