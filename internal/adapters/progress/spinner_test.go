package progress

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

func TestSpinnerSink_PrintsCompletedStages(t *testing.T) {
	var out bytes.Buffer
	sink := newSpinnerSink(&out, false)
	ctx := context.Background()

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "waiting", Metadata: "chain-901", Message: "waiting for chain 901 (attempt 1/10)", Spinner: true})
	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "waiting", Metadata: "chain-902", Message: "waiting for chain 902 (attempt 1/10)", Spinner: true})
	assert.Equal(t, " waiting for chain 901 (attempt 1/10) | waiting for chain 902 (attempt 1/10)", sink.spinner.Suffix)

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "ready", Metadata: "chain-901", Message: "chain 901 ready at block 3"})
	assert.Equal(t, " waiting for chain 902 (attempt 1/10)", sink.spinner.Suffix)

	sink.Info("Supersim started successfully (PID 4242)")
	sink.Error("chain 902 not ready")
	sink.Stop()

	assert.Equal(t,
		"✓ chain 901 ready at block 3\nSupersim started successfully (PID 4242)\nchain 902 not ready\n",
		out.String())
}

func TestSpinnerSink_ConcurrentEvents(t *testing.T) {
	sink := newSpinnerSink(&bytes.Buffer{}, false)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, key := range []string{"chain-901", "chain-902", "chain-903"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "waiting", Metadata: key, Message: key, Spinner: true})
			}
			sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "ready", Metadata: key, Message: key})
		}()
	}
	wg.Wait()

	assert.Empty(t, sink.waiting)
	assert.Empty(t, sink.order)
}

func TestNewSink(t *testing.T) {
	assert.IsType(t, usecase.NopProgress{}, NewSink(true))
}
