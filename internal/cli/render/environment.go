package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

// EnvironmentRenderer renders the outcome of environment setup
type EnvironmentRenderer struct {
	out io.Writer
}

// NewEnvironmentRenderer creates a new environment renderer
func NewEnvironmentRenderer(out io.Writer) *EnvironmentRenderer {
	return &EnvironmentRenderer{out: out}
}

// Render prints the running simulator and its ready chains
func (r *EnvironmentRenderer) Render(env *usecase.Environment) error {
	if env == nil || env.Process == nil {
		return fmt.Errorf("no environment to render")
	}

	headingStyle.Fprintf(r.out, "Supersim running (PID %d)\n", env.Process.PID())
	for _, ready := range env.Readiness {
		if ready == nil {
			continue
		}
		okStyle.Fprintf(r.out, "  ✓ chain %d", ready.Endpoint.ChainID)
		fmt.Fprintf(r.out, "  %s  block %d\n", ready.Endpoint.RPCURL, ready.BlockNumber)
	}
	faintStyle.Fprintf(r.out, "Logs: %s\n", env.LogsDir)
	return nil
}

// RenderSkip explains why the run was skipped
func (r *EnvironmentRenderer) RenderSkip(err error) {
	warnStyle.Fprintf(r.out, "⚠️  Skipping: %v\n", err)
	warnStyle.Fprintln(r.out, "Another simulator (or some other process) already owns the simulator ports.")
}

// RenderPorts lists the checked ports and whether they are in use
func (r *EnvironmentRenderer) RenderPorts(statuses []usecase.PortStatus) {
	for _, s := range statuses {
		if s.InUse {
			warnStyle.Fprintf(r.out, "  %d in use\n", s.Port)
		} else {
			okStyle.Fprintf(r.out, "  %d free\n", s.Port)
		}
	}
}
