package progress

import (
	"github.com/fatih/color"
	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

// NewNopSink creates a new no-op progress sink
func NewNopSink() usecase.ProgressSink {
	return usecase.NopProgress{}
}

// NewSink picks the spinner for interactive terminals and the no-op sink otherwise
func NewSink(nonInteractive bool) usecase.ProgressSink {
	if nonInteractive || color.NoColor {
		return NewNopSink()
	}
	return NewSpinnerSink()
}
