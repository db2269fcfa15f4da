package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/trebuchet-org/supersim-harness/internal/domain"
	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

var (
	okStyle      = color.New(color.FgGreen)
	warnStyle    = color.New(color.FgYellow)
	failStyle    = color.New(color.FgRed)
	headingStyle = color.New(color.FgCyan, color.Bold)
	faintStyle   = color.New(color.Faint)
)

// StatusRenderer renders chain status snapshots
type StatusRenderer struct {
	out    io.Writer
	format Format
}

// NewStatusRenderer creates a new status renderer
func NewStatusRenderer(out io.Writer, format Format) *StatusRenderer {
	return &StatusRenderer{out: out, format: format}
}

// Render writes the status of every configured chain
func (r *StatusRenderer) Render(result *usecase.ChainStatusResult) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		defer enc.Close()
		return enc.Encode(result)
	}

	if len(result.Chains) == 0 {
		fmt.Fprintln(r.out, "No chains configured")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Chain", "RPC URL", "Port", "State", "Block"})

	for _, chain := range result.Chains {
		tw.AppendRow(table.Row{
			chain.Endpoint.ChainID,
			chain.Endpoint.RPCURL,
			portCell(chain),
			stateCell(chain),
			blockCell(chain),
		})
	}
	tw.Render()

	if result.Ready() {
		okStyle.Fprintln(r.out, "All chains are responding")
	} else {
		warnStyle.Fprintln(r.out, "Some chains are not responding")
	}
	return nil
}

func portCell(chain domain.ChainStatus) string {
	if chain.Port == 0 {
		return "-"
	}
	port := strconv.Itoa(chain.Port)
	if chain.PortInUse {
		return port + " (in use)"
	}
	return port + " (free)"
}

func stateCell(chain domain.ChainStatus) string {
	state := domain.ReadinessNotReady
	if chain.Responding {
		state = domain.ReadinessReady
	}
	title := cases.Title(language.English).String(state.String())

	switch {
	case !chain.Responding:
		return failStyle.Sprint(title)
	case !chain.ChainIDMatches():
		return warnStyle.Sprintf("%s (reports chain %d)", title, chain.ReportedChainID)
	default:
		return okStyle.Sprint(title)
	}
}

func blockCell(chain domain.ChainStatus) string {
	if !chain.Responding {
		if chain.Error != "" {
			return faintStyle.Sprint(chain.Error)
		}
		return "-"
	}
	return strconv.FormatUint(chain.BlockNumber, 10)
}
