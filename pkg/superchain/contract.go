package superchain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ErrNotDeployed is returned when a contract is used before Deploy or At
var ErrNotDeployed = errors.New("contract not deployed")

// Contract is a single contract definition that can be deployed to, and
// interacted with on, any configured chain
type Contract struct {
	config   Config
	wallet   *Wallet
	abi      abi.ABI
	bytecode []byte
	args     []any

	mu      sync.Mutex
	address common.Address
	clients map[uint64]*ethclient.Client
}

// NewContract creates a contract bound to a wallet. args are the constructor arguments.
func NewContract(config Config, wallet *Wallet, contractABI abi.ABI, bytecode []byte, args ...any) *Contract {
	return &Contract{
		config:   config,
		wallet:   wallet,
		abi:      contractABI,
		bytecode: bytecode,
		args:     args,
		clients:  make(map[uint64]*ethclient.Client),
	}
}

// Address returns the deployed address, or the zero address before deployment
func (c *Contract) Address() common.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.address
}

// At points the contract at an existing deployment
func (c *Contract) At(address common.Address) *Contract {
	c.mu.Lock()
	c.address = address
	c.mu.Unlock()
	return c
}

// Deploy deploys the contract on chainID and waits for the receipt
func (c *Contract) Deploy(ctx context.Context, chainID uint64) (common.Address, error) {
	client, err := c.client(ctx, chainID)
	if err != nil {
		return common.Address{}, err
	}

	opts, err := c.wallet.TransactOpts(ctx, chainID)
	if err != nil {
		return common.Address{}, err
	}

	_, tx, _, err := bind.DeployContract(opts, c.abi, c.bytecode, client, c.args...)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to deploy on chain %d: %w", chainID, err)
	}

	receipt, err := c.waitMined(ctx, client, chainID, tx)
	if err != nil {
		return common.Address{}, err
	}

	c.At(receipt.ContractAddress)
	return receipt.ContractAddress, nil
}

// SendTx sends a state changing call to method on chainID and waits for it to be mined
func (c *Contract) SendTx(ctx context.Context, chainID uint64, method string, args ...any) (*types.Receipt, error) {
	bound, client, err := c.bound(ctx, chainID)
	if err != nil {
		return nil, err
	}

	opts, err := c.wallet.TransactOpts(ctx, chainID)
	if err != nil {
		return nil, err
	}

	tx, err := bound.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s on chain %d: %w", method, chainID, err)
	}
	return c.waitMined(ctx, client, chainID, tx)
}

// Call performs a read-only call to method on chainID and returns the decoded outputs
func (c *Contract) Call(ctx context.Context, chainID uint64, method string, args ...any) ([]any, error) {
	bound, _, err := c.bound(ctx, chainID)
	if err != nil {
		return nil, err
	}

	var out []any
	opts := &bind.CallOpts{Context: ctx, From: c.wallet.Address()}
	if err := bound.Call(opts, &out, method, args...); err != nil {
		return nil, fmt.Errorf("failed to call %s on chain %d: %w", method, chainID, err)
	}
	return out, nil
}

// Close releases the RPC connections opened by the contract
func (c *Contract) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, client := range c.clients {
		client.Close()
		delete(c.clients, id)
	}
}

func (c *Contract) bound(ctx context.Context, chainID uint64) (*bind.BoundContract, *ethclient.Client, error) {
	address := c.Address()
	if address == (common.Address{}) {
		return nil, nil, ErrNotDeployed
	}
	client, err := c.client(ctx, chainID)
	if err != nil {
		return nil, nil, err
	}
	return bind.NewBoundContract(address, c.abi, client, client, client), client, nil
}

func (c *Contract) client(ctx context.Context, chainID uint64) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[chainID]; ok {
		return client, nil
	}

	rpcURL, err := c.config.RPCURL(chainID)
	if err != nil {
		return nil, err
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain %d: %w", chainID, err)
	}
	c.clients[chainID] = client
	return client, nil
}

func (c *Contract) waitMined(ctx context.Context, client *ethclient.Client, chainID uint64, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, client, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s on chain %d: %w", tx.Hash().Hex(), chainID, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("transaction %s reverted on chain %d", tx.Hash().Hex(), chainID)
	}
	return receipt, nil
}
