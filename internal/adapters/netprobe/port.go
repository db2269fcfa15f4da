package netprobe

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/trebuchet-org/supersim-harness/internal/domain/config"
	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

// DefaultDialTimeout bounds a single connect attempt
const DefaultDialTimeout = time.Second

// PortChecker detects prior occupancy of local TCP ports
type PortChecker struct {
	host    string
	timeout time.Duration
	log     *slog.Logger
}

// NewPortChecker creates a port checker for localhost
func NewPortChecker(cfg *config.RuntimeConfig, log *slog.Logger) *PortChecker {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	return &PortChecker{
		host:    "localhost",
		timeout: timeout,
		log:     log,
	}
}

// CheckPortFree makes a single connection attempt to localhost:port.
// It returns false only when the connection succeeds.
func (p *PortChecker) CheckPortFree(ctx context.Context, port int) bool {
	addr := net.JoinHostPort(p.host, strconv.Itoa(port))
	dialer := net.Dialer{Timeout: p.timeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		p.log.Debug("port is free", "addr", addr, "reason", err)
		return true
	}
	_ = conn.Close()

	p.log.Debug("port is in use", "addr", addr)
	return false
}

var _ usecase.PortChecker = (*PortChecker)(nil)
