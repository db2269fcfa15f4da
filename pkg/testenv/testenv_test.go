package testenv

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/supersim-harness/internal/domain"
)

type fakeRunner struct {
	ran  bool
	code int
}

func (f *fakeRunner) Run() int {
	f.ran = true
	return f.code
}

func stubSetup(t *testing.T, fn func(context.Context, ...Option) (*Env, error)) {
	t.Helper()
	prev := setupFn
	setupFn = fn
	t.Cleanup(func() { setupFn = prev })
}

func TestMain_SkipsWhenPortsOccupied(t *testing.T) {
	stubSetup(t, func(context.Context, ...Option) (*Env, error) {
		return nil, &domain.PortOccupiedError{Port: 9545}
	})

	m := &fakeRunner{code: 3}
	var exitCode = -1
	prevExit := exit
	exit = func(code int) { exitCode = code }
	t.Cleanup(func() { exit = prevExit })

	Main(m)

	assert.Equal(t, 0, exitCode)
	assert.False(t, m.ran, "tests must not run when the environment is occupied")
}

func TestRun_SetupFailure(t *testing.T) {
	stubSetup(t, func(context.Context, ...Option) (*Env, error) {
		return nil, &domain.ChainNotReadyError{RPCURL: "http://localhost:9546", Attempts: 10}
	})

	m := &fakeRunner{}
	assert.Equal(t, 1, run(m))
	assert.False(t, m.ran)
}

func TestRun_PropagatesTestResult(t *testing.T) {
	stubSetup(t, func(context.Context, ...Option) (*Env, error) {
		return &Env{}, nil
	})

	m := &fakeRunner{code: 2}
	assert.Equal(t, 2, run(m))
	assert.True(t, m.ran)
}

func TestTeardown_WithoutSetup(t *testing.T) {
	require.Nil(t, Current())
	assert.NotPanics(t, func() {
		Teardown(context.Background())
		(&Env{}).Teardown(context.Background())
	})
	assert.Equal(t, 0, (&Env{}).PID())
	assert.Empty(t, (&Env{}).LogsDir())
}

func TestSetup_OccupiedPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	root := t.TempDir()
	env, err := Setup(context.Background(),
		WithProjectRoot(root),
		WithBinary(filepath.Join(root, "must-not-run")),
		WithChains(map[uint64]string{901: "http://127.0.0.1:" + strconv.Itoa(port)}),
	)
	require.Error(t, err)
	assert.Nil(t, env)
	assert.True(t, IsSkip(err))
	assert.Nil(t, Current())
}

func TestSetup_SpawnFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	root := t.TempDir()
	_, err = Setup(context.Background(),
		WithProjectRoot(root),
		WithBinary(filepath.Join(root, "missing")),
		WithChains(map[uint64]string{901: "http://127.0.0.1:" + strconv.Itoa(port)}),
		WithPolling(1, 10*time.Millisecond),
	)
	require.Error(t, err)
	assert.False(t, IsSkip(err))
	assert.True(t, errors.Is(err, domain.ErrSpawnFailed))
	assert.Nil(t, Current())
}

func TestOptions(t *testing.T) {
	o := newOptions([]Option{
		WithProjectRoot("/work"),
		WithChains(map[uint64]string{902: "http://localhost:9546", 901: "http://localhost:9545"}),
		WithPolling(3, 250*time.Millisecond),
		WithBinary(" ./bin/supersim ", "--l1.port=8545"),
	})

	assert.Equal(t, "/work", o.projectRoot)
	assert.Equal(t, []string{"901=http://localhost:9545", "902=http://localhost:9546"}, o.overrides["chains"])
	assert.Equal(t, 3, o.overrides["max_attempts"])
	assert.Equal(t, 250*time.Millisecond, o.overrides["poll_interval"])
	assert.Equal(t, "./bin/supersim", o.overrides["binary"])
	assert.Equal(t, []string{"--l1.port=8545"}, o.overrides["extra_args"])
}
