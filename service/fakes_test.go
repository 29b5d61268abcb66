package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/ports"
	"github.com/layer-3/nearstore/storage"
	"github.com/layer-3/nearstore/wallet"
)

var testNetwork = core.NetworkConfig{
	NetworkID:    "testnet",
	NodeURL:      "https://rpc.testnet.near.org",
	ContractName: "nft.testnet",
	WalletURL:    "https://wallet.testnet.near.org",
	GasLimit:     "200000000000000",
	TokenType:    "nft-2048",
}

type fakeNode struct {
	mu       sync.Mutex
	accounts map[string]*core.AccountState
	views    map[string]string
	calls    map[string]string

	// when set, StorageAmountPerByte signals entered and waits on gate
	entered chan struct{}
	gate    chan struct{}
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		accounts: map[string]*core.AccountState{},
		views:    map[string]string{},
		calls:    map[string]string{},
	}
}

func (f *fakeNode) ViewAccount(ctx context.Context, accountID string) (*core.AccountState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrAccountNotFound, accountID)
	}
	return state, nil
}

func (f *fakeNode) CallFunction(ctx context.Context, contractID, method string, args []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method] = string(args)
	out, ok := f.views[contractID+"."+method]
	if !ok {
		return nil, errors.New("wasm execution failed with error: MethodNotFound")
	}
	return []byte(out), nil
}

func (f *fakeNode) StorageAmountPerByte(ctx context.Context) (string, error) {
	if f.gate != nil {
		f.entered <- struct{}{}
		<-f.gate
	}
	return "10000000000000000000", nil
}

type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, error) {
	return "", fmt.Errorf("%w: connection refused", core.ErrStoreOperationFailed)
}

func (failingStore) Set(ctx context.Context, key, value string) error {
	return fmt.Errorf("%w: connection refused", core.ErrStoreOperationFailed)
}

func (failingStore) Delete(ctx context.Context, key string) error {
	return fmt.Errorf("%w: connection refused", core.ErrStoreOperationFailed)
}

func (failingStore) InvalidateToken(ctx context.Context, tokenID string, expiry time.Duration) (bool, error) {
	return false, fmt.Errorf("%w: connection refused", core.ErrStoreOperationFailed)
}

func newTestFacade(node *fakeNode, backend ports.Store) (*wallet.Facade, *storage.Adapter) {
	st := storage.New(backend)
	return wallet.NewFacade(wallet.Connect(testNetwork, node, st)), st
}
