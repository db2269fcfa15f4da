package usecase

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/supersim-harness/internal/domain"
)

// PortStatus is the occupancy of a single port
type PortStatus struct {
	Port  int
	InUse bool
}

// CheckPorts verifies that the simulator ports are free before launch
type CheckPorts struct {
	checker PortChecker
	log     *slog.Logger
}

// NewCheckPorts creates a new port check use case
func NewCheckPorts(checker PortChecker, log *slog.Logger) *CheckPorts {
	return &CheckPorts{
		checker: checker,
		log:     log,
	}
}

// EnsurePortsFree checks ports in order and stops at the first one in use,
// returning a *domain.PortOccupiedError for it
func (c *CheckPorts) EnsurePortsFree(ctx context.Context, ports []int) error {
	for _, port := range ports {
		if !c.checker.CheckPortFree(ctx, port) {
			c.log.Warn("port is in use", "port", port)
			return &domain.PortOccupiedError{Port: port}
		}
	}
	return nil
}

// Execute checks every port and reports each one
func (c *CheckPorts) Execute(ctx context.Context, ports []int) []PortStatus {
	statuses := make([]PortStatus, 0, len(ports))
	for _, port := range ports {
		statuses = append(statuses, PortStatus{
			Port:  port,
			InUse: !c.checker.CheckPortFree(ctx, port),
		})
	}
	return statuses
}
