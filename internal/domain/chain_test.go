package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainEndpoint_Port(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    int
		wantErr string
	}{
		{name: "explicit port", url: "http://localhost:9545", want: 9545},
		{name: "ipv4 host", url: "http://127.0.0.1:9546", want: 9546},
		{name: "path ignored", url: "http://localhost:8545/rpc", want: 8545},
		{name: "http default", url: "http://localhost", want: 80},
		{name: "https default", url: "https://rpc.example.org", want: 443},
		{name: "missing scheme", url: "localhost:9545", wantErr: "invalid RPC URL"},
		{name: "empty", url: "", wantErr: "missing host"},
		{name: "port out of range", url: "http://localhost:70000", wantErr: "invalid port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChainEndpoint{ChainID: 901, RPCURL: tt.url}.Port()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadinessState_String(t *testing.T) {
	assert.Equal(t, "not ready", ReadinessNotReady.String())
	assert.Equal(t, "ready", ReadinessReady.String())
	assert.Equal(t, "failed", ReadinessFailed.String())
}

func TestChainStatus_ChainIDMatches(t *testing.T) {
	endpoint := ChainEndpoint{ChainID: 901, RPCURL: "http://localhost:9545"}
	assert.True(t, ChainStatus{Endpoint: endpoint}.ChainIDMatches())
	assert.True(t, ChainStatus{Endpoint: endpoint, ReportedChainID: 901}.ChainIDMatches())
	assert.False(t, ChainStatus{Endpoint: endpoint, ReportedChainID: 902}.ChainIDMatches())
}

func TestSimulatorSpec_Args(t *testing.T) {
	spec := SimulatorSpec{Binary: "supersim", LogsDir: "/work/.logs"}
	assert.Equal(t, []string{
		"--interop.autorelay",
		"--log.level=debug",
		"--logs.directory=/work/.logs",
	}, spec.Args())

	spec.ExtraArgs = []string{"--l2.starting.port=9545"}
	assert.Equal(t, "--l2.starting.port=9545", spec.Args()[3])
}

func TestErrors(t *testing.T) {
	t.Run("occupied port is a skip", func(t *testing.T) {
		err := fmt.Errorf("setup: %w", &PortOccupiedError{Port: 9545})
		assert.True(t, IsSkip(err))
		assert.EqualError(t, err, "setup: port 9545 is in use")
	})

	t.Run("chain not ready is a failure", func(t *testing.T) {
		last := errors.New("connection refused")
		err := &ChainNotReadyError{RPCURL: "http://localhost:9546", Attempts: 10, Last: last}
		assert.False(t, IsSkip(err))
		assert.ErrorIs(t, err, ErrChainNotReady)
		assert.ErrorIs(t, err, last)
		assert.EqualError(t, err, "chain at http://localhost:9546 not ready after 10 attempts: connection refused")
	})

	t.Run("chain not ready without cause", func(t *testing.T) {
		err := &ChainNotReadyError{RPCURL: "http://localhost:9546", Attempts: 1}
		assert.ErrorIs(t, err, ErrChainNotReady)
		assert.EqualError(t, err, "chain at http://localhost:9546 not ready after 1 attempts")
	})

	t.Run("unknown chain", func(t *testing.T) {
		err := &UnknownChainError{ChainID: 999}
		assert.ErrorIs(t, err, ErrUnknownChain)
		assert.EqualError(t, err, "chain 999 is not configured")
	})

	assert.False(t, IsSkip(nil))
}
