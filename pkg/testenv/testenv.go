// Package testenv runs a supersim environment around a Go test binary.
//
// A typical integration suite wires it into TestMain:
//
//	func TestMain(m *testing.M) {
//		testenv.Main(m)
//	}
//
// Main launches supersim, waits for every chain and tears it down after the
// tests. When the simulator ports are already taken the suite is skipped and
// the binary exits 0 without running any test.
package testenv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/trebuchet-org/supersim-harness/internal/app"
	"github.com/trebuchet-org/supersim-harness/internal/config"
	"github.com/trebuchet-org/supersim-harness/internal/domain"
	"github.com/trebuchet-org/supersim-harness/internal/usecase"
	"github.com/trebuchet-org/supersim-harness/pkg/superchain"
)

// ErrAlreadyRunning is returned by Setup while a previous environment is still up
var ErrAlreadyRunning = errors.New("test environment already running")

// IsSkip reports whether err means the environment was not started because
// its ports are taken
func IsSkip(err error) bool {
	return domain.IsSkip(err)
}

// Env is a running simulator with all chains ready
type Env struct {
	app    *app.App
	env    *usecase.Environment
	chains *superchain.StandardConfig
}

// Config returns the chain configuration of the running environment
func (e *Env) Config() *superchain.StandardConfig {
	return e.chains
}

// RPCURL returns the endpoint of chainID
func (e *Env) RPCURL(chainID uint64) (string, error) {
	return e.chains.RPCURL(chainID)
}

// LogsDir is where supersim writes its logs
func (e *Env) LogsDir() string {
	if e.env == nil {
		return ""
	}
	return e.env.LogsDir
}

// PID returns the simulator process ID, or 0 when nothing is running
func (e *Env) PID() int {
	if e.env == nil || e.env.Process == nil {
		return 0
	}
	return e.env.Process.PID()
}

// Teardown stops the simulator. It is safe to call more than once.
func (e *Env) Teardown(ctx context.Context) {
	mu.Lock()
	if current == e {
		current = nil
	}
	mu.Unlock()

	if e.app == nil || e.env == nil {
		return
	}
	e.app.SetupEnvironment.Teardown(ctx, e.env)
	e.env = nil
}

var (
	mu      sync.Mutex
	current *Env
)

// Current returns the environment started by the last successful Setup, or nil
func Current() *Env {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Setup launches supersim and waits for every configured chain. Settings
// come from supersim.toml, SUPERSIM_* variables and the given options.
// An occupied port returns an error for which IsSkip is true.
func Setup(ctx context.Context, opts ...Option) (*Env, error) {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return nil, ErrAlreadyRunning
	}

	o := newOptions(opts)

	projectRoot := o.projectRoot
	if projectRoot == "" {
		var err error
		if projectRoot, err = config.FindProjectRoot(); err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	v := config.SetupViper(projectRoot)
	for key, value := range o.overrides {
		v.Set(key, value)
	}

	a, err := app.InitApp(v, o.sink)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test environment: %w", err)
	}

	env, err := a.SetupEnvironment.Setup(ctx)
	if err != nil {
		return nil, err
	}

	chains, err := superchain.NewConfigFromEndpoints(env.Endpoints)
	if err != nil {
		a.SetupEnvironment.Teardown(ctx, env)
		return nil, err
	}

	current = &Env{app: a, env: env, chains: chains}
	return current, nil
}

// Teardown stops the environment started by Setup. Without one it does nothing.
func Teardown(ctx context.Context) {
	if env := Current(); env != nil {
		env.Teardown(ctx)
	}
}

// runner is the part of *testing.M that Main needs
type runner interface {
	Run() int
}

var (
	setupFn = Setup
	exit    = os.Exit
)

// Main sets up the environment, runs the tests and tears it down, then
// exits with the test result. Occupied ports exit 0 without running tests.
func Main(m runner, opts ...Option) {
	exit(run(m, opts...))
}

func run(m runner, opts ...Option) int {
	ctx := context.Background()

	env, err := setupFn(ctx, opts...)
	if err != nil {
		if IsSkip(err) {
			fmt.Fprintf(os.Stderr, "supersim environment unavailable, skipping tests: %v\n", err)
			return 0
		}
		fmt.Fprintf(os.Stderr, "failed to set up supersim environment: %v\n", err)
		return 1
	}
	defer env.Teardown(ctx)

	return m.Run()
}
