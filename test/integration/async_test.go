//go:build integration

package integration

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/supersim-harness/pkg/superchain"
)

// Anvil's first two development accounts, funded on every supersim chain
const (
	devKeyA = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	devKeyB = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
)

func TestAsyncCallbackLoop(t *testing.T) {
	artifactPath := filepath.Join(projectRoot(), "out", "ExampleAsyncEnabled.sol", "ExampleAsyncEnabled.json")
	if _, err := os.Stat(artifactPath); err != nil {
		t.Skipf("contract artifact not built (run forge build): %v", err)
	}
	artifact, err := superchain.LoadFoundryArtifact(artifactPath)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	config := superchain.NewStandardConfig(map[uint64]string{
		901: "http://localhost:9545",
		902: "http://localhost:9546",
	})

	returnValA := big.NewInt(420)
	returnValB := big.NewInt(69)

	walletA, err := superchain.NewWallet(devKeyA)
	require.NoError(t, err)
	walletB, err := superchain.NewWallet(devKeyB)
	require.NoError(t, err)

	contractA := superchain.NewContract(config, walletA, artifact.ABI, artifact.Bytecode, returnValA)
	defer contractA.Close()
	addrA, err := contractA.Deploy(ctx, 901)
	require.NoError(t, err)
	t.Logf("contract A deployed at %s", addrA.Hex())

	contractB := superchain.NewContract(config, walletB, artifact.ABI, artifact.Bytecode, returnValB)
	defer contractB.Close()
	addrB, err := contractB.Deploy(ctx, 902)
	require.NoError(t, err)
	t.Logf("contract B deployed at %s", addrB.Hex())

	_, err = contractA.SendTx(ctx, 901, "makeAsyncCallAndStore", addrB, big.NewInt(902))
	require.NoError(t, err)

	var last *big.Int
	for attempt := 1; attempt <= 30; attempt++ {
		out, err := contractA.Call(ctx, 901, "lastValueReturned")
		require.NoError(t, err)
		require.Len(t, out, 1)

		last = out[0].(*big.Int)
		t.Logf("attempt %d: lastValueReturned = %s", attempt, last)
		if last.Cmp(returnValB) == 0 {
			break
		}

		select {
		case <-ctx.Done():
			t.Fatalf("timed out waiting for the async callback: %v", ctx.Err())
		case <-time.After(time.Second):
		}
	}

	assert.Equal(t, 0, last.Cmp(returnValB), "expected %s, got %s", returnValB, last)
}
