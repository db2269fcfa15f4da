package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/trebuchet-org/supersim-harness/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePortChecker reports the ports in busy as occupied
type fakePortChecker struct {
	mu      sync.Mutex
	busy    map[int]bool
	checked []int
}

func newFakePortChecker(busy ...int) *fakePortChecker {
	f := &fakePortChecker{busy: make(map[int]bool)}
	for _, p := range busy {
		f.busy[p] = true
	}
	return f
}

func (f *fakePortChecker) CheckPortFree(_ context.Context, port int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, port)
	return !f.busy[port]
}

// fakeProber fails the first failures[url] probes for url, then succeeds.
// A negative count never succeeds.
type fakeProber struct {
	mu       sync.Mutex
	failures map[string]int
	calls    map[string]int
	height   uint64
	chainIDs map[string]uint64
}

func newFakeProber(failures map[string]int) *fakeProber {
	return &fakeProber{
		failures: failures,
		calls:    make(map[string]int),
		height:   42,
		chainIDs: make(map[string]uint64),
	}
}

var errConnRefused = errors.New("connection refused")

func (f *fakeProber) BlockNumber(_ context.Context, rpcURL string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[rpcURL]++
	n := f.failures[rpcURL]
	if n < 0 || f.calls[rpcURL] <= n {
		return 0, errConnRefused
	}
	return f.height, nil
}

func (f *fakeProber) ChainID(_ context.Context, rpcURL string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.chainIDs[rpcURL]; ok {
		return id, nil
	}
	return 0, errConnRefused
}

func (f *fakeProber) callsFor(rpcURL string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[rpcURL]
}

// recordingSleeper returns immediately and remembers every requested pause
type recordingSleeper struct {
	mu     sync.Mutex
	pauses []time.Duration
}

func (r *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.pauses = append(r.pauses, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *recordingSleeper) total() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum time.Duration
	for _, d := range r.pauses {
		sum += d
	}
	return sum
}

type fakeProcess struct {
	pid      int
	done     chan struct{}
	doneOnce sync.Once

	mu      sync.Mutex
	stopped int
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{pid: 4242, done: make(chan struct{})}
}

func (p *fakeProcess) PID() int              { return p.pid }
func (p *fakeProcess) Done() <-chan struct{} { return p.done }

func (p *fakeProcess) Err() error {
	select {
	case <-p.done:
		return domain.ErrSimulatorExited
	default:
		return nil
	}
}

func (p *fakeProcess) Stop(context.Context) error {
	p.mu.Lock()
	p.stopped++
	p.mu.Unlock()
	p.exit()
	return nil
}

func (p *fakeProcess) exit() {
	p.doneOnce.Do(func() { close(p.done) })
}

func (p *fakeProcess) stopCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

type fakeLauncher struct {
	proc     *fakeProcess
	err      error
	launched int
	spec     domain.SimulatorSpec
	onLaunch func(*fakeProcess)
}

func (f *fakeLauncher) Launch(_ context.Context, spec domain.SimulatorSpec) (SimulatorProcess, error) {
	f.launched++
	f.spec = spec
	if f.err != nil {
		return nil, f.err
	}
	if f.onLaunch != nil {
		f.onLaunch(f.proc)
	}
	return f.proc, nil
}
