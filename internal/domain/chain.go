package domain

import (
	"fmt"
	"net/url"
	"strconv"
)

// ChainEndpoint is an RPC-reachable chain identified by its chain ID
type ChainEndpoint struct {
	ChainID uint64 `json:"chainId" yaml:"chainId"`
	RPCURL  string `json:"rpcUrl" yaml:"rpcUrl"`
}

// Port returns the TCP port the endpoint listens on, falling back to the
// scheme default when the URL carries none
func (e ChainEndpoint) Port() (int, error) {
	u, err := url.Parse(e.RPCURL)
	if err != nil {
		return 0, fmt.Errorf("invalid RPC URL %q: %w", e.RPCURL, err)
	}
	if u.Host == "" {
		return 0, fmt.Errorf("invalid RPC URL %q: missing host", e.RPCURL)
	}

	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			return 443, nil
		}
		return 80, nil
	}

	p, err := strconv.Atoi(port)
	if err != nil || p < 1 || p > 65535 {
		return 0, fmt.Errorf("invalid port in RPC URL %q", e.RPCURL)
	}
	return p, nil
}

// ReadinessState tracks whether a chain endpoint answers liveness queries
type ReadinessState int

const (
	ReadinessNotReady ReadinessState = iota
	ReadinessReady
	ReadinessFailed
)

func (s ReadinessState) String() string {
	switch s {
	case ReadinessReady:
		return "ready"
	case ReadinessFailed:
		return "failed"
	default:
		return "not ready"
	}
}

// ChainReadiness is the outcome of polling a single endpoint
type ChainReadiness struct {
	Endpoint    ChainEndpoint
	State       ReadinessState
	Attempts    int
	BlockNumber uint64
	Err         error
}

// ChainStatus is a one-shot snapshot of an endpoint, used for reporting
type ChainStatus struct {
	Endpoint        ChainEndpoint `json:"endpoint" yaml:"endpoint"`
	Port            int           `json:"port" yaml:"port"`
	PortInUse       bool          `json:"portInUse" yaml:"portInUse"`
	Responding      bool          `json:"responding" yaml:"responding"`
	BlockNumber     uint64        `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`
	ReportedChainID uint64        `json:"reportedChainId,omitempty" yaml:"reportedChainId,omitempty"`
	Error           string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// ChainIDMatches reports whether the node's own chain ID agrees with the
// configured one. Unknown (zero) reported IDs are treated as a match.
func (s ChainStatus) ChainIDMatches() bool {
	return s.ReportedChainID == 0 || s.ReportedChainID == s.Endpoint.ChainID
}
