package superchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet signs transactions with a single private key on any chain
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewWallet creates a wallet from a hex encoded private key, with or without 0x prefix
func NewWallet(privateKeyHex string) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the wallet's account address
func (w *Wallet) Address() common.Address {
	return w.address
}

// TransactOpts returns signing options bound to chainID
func (w *Wallet) TransactOpts(ctx context.Context, chainID uint64) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, new(big.Int).SetUint64(chainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor for chain %d: %w", chainID, err)
	}
	opts.Context = ctx
	return opts, nil
}
