package domain

// Flags always passed to the simulator binary
const (
	FlagInteropAutorelay = "--interop.autorelay"
	FlagLogLevelDebug    = "--log.level=debug"
	FlagLogsDirectory    = "--logs.directory"
)

// SimulatorSpec describes how to launch the local multi-chain simulator
type SimulatorSpec struct {
	Binary    string   `json:"binary"`
	LogsDir   string   `json:"logsDir"`
	ExtraArgs []string `json:"extraArgs,omitempty"`
}

// Args returns the full argument list for the simulator process
func (s SimulatorSpec) Args() []string {
	args := []string{
		FlagInteropAutorelay,
		FlagLogLevelDebug,
		FlagLogsDirectory + "=" + s.LogsDir,
	}
	return append(args, s.ExtraArgs...)
}
