package superchain

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Artifact is the subset of a Foundry compilation artifact
// (out/<File>.sol/<Contract>.json) needed to deploy a contract
type Artifact struct {
	ABI      abi.ABI
	Bytecode []byte
}

type foundryArtifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode struct {
		Object string `json:"object"`
	} `json:"bytecode"`
}

// LoadFoundryArtifact reads and parses a Foundry artifact file
func LoadFoundryArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return ParseFoundryArtifact(data)
}

// ParseFoundryArtifact parses Foundry artifact JSON
func ParseFoundryArtifact(data []byte) (*Artifact, error) {
	var raw foundryArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("artifact has no abi")
	}

	parsed, err := abi.JSON(strings.NewReader(string(raw.ABI)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}

	object := strings.TrimSpace(raw.Bytecode.Object)
	if object == "" || object == "0x" {
		return nil, fmt.Errorf("artifact has no bytecode (abstract contract or interface?)")
	}

	return &Artifact{
		ABI:      parsed,
		Bytecode: common.FromHex(object),
	}, nil
}
