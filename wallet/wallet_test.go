package wallet

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/layer-3/nearstore/adapters/store"
	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNetwork = core.NetworkConfig{
	NetworkID:    "testnet",
	NodeURL:      "https://rpc.testnet.near.org",
	ContractName: "nft.testnet",
	WalletURL:    "https://wallet.testnet.near.org",
	GasLimit:     "200000000000000",
}

type fakeRPC struct {
	accounts    map[string]*core.AccountState
	views       map[string][]byte
	viewArgs    map[string]string
	perByte     string
	failAccount error
}

func (f *fakeRPC) ViewAccount(ctx context.Context, accountID string) (*core.AccountState, error) {
	if f.failAccount != nil {
		return nil, f.failAccount
	}
	state, ok := f.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s does not exist while viewing", core.ErrAccountNotFound, accountID)
	}
	return state, nil
}

func (f *fakeRPC) CallFunction(ctx context.Context, contractID, method string, args []byte) ([]byte, error) {
	if f.viewArgs == nil {
		f.viewArgs = map[string]string{}
	}
	f.viewArgs[method] = string(args)
	out, ok := f.views[contractID+"."+method]
	if !ok {
		return nil, errors.New("wasm execution failed with error: MethodNotFound")
	}
	return out, nil
}

func (f *fakeRPC) StorageAmountPerByte(ctx context.Context) (string, error) {
	return f.perByte, nil
}

func newTestNear(rpc *fakeRPC) (*Near, *storage.Adapter) {
	st := storage.New(store.NewMemoryStore())
	return Connect(testNetwork, rpc, st), st
}

func TestKeyPairEncoding(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(kp.PublicKey(), "ed25519:"))

	parsed, err := ParseKeyPair(kp.String())
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey(), parsed.PublicKey())

	sig := parsed.Sign([]byte("hello"))
	assert.True(t, kp.Verify([]byte("hello"), sig))
	assert.False(t, kp.Verify([]byte("tampered"), sig))

	_, err = ParseKeyPair("secp256k1:abc")
	assert.Error(t, err)
	_, err = ParseKeyPair("ed25519:abc")
	assert.Error(t, err)
}

func TestKeyStore(t *testing.T) {
	ctx := context.Background()
	ks := NewKeyStore(storage.New(store.NewMemoryStore()))

	_, err := ks.GetKey(ctx, "testnet", "alice.testnet")
	assert.ErrorIs(t, err, core.ErrKeyPairNotFound)

	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	require.NoError(t, ks.SetKey(ctx, "testnet", "alice.testnet", kp))

	got, err := ks.GetKey(ctx, "testnet", "alice.testnet")
	require.NoError(t, err)
	assert.Equal(t, kp.String(), got.String())

	ok, err := ks.HasKey(ctx, "mainnet", "alice.testnet")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ks.RemoveKey(ctx, "testnet", "alice.testnet"))
	ok, err = ks.HasKey(ctx, "testnet", "alice.testnet")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWalletSignInFlow(t *testing.T) {
	ctx := context.Background()
	near, st := newTestNear(&fakeRPC{})

	w, err := NewWalletConnection(ctx, near, "")
	require.NoError(t, err)
	assert.False(t, w.IsSignedIn())
	_, err = w.Account()
	assert.ErrorIs(t, err, core.ErrNotSignedIn)

	req, err := w.RequestSignIn(ctx, "http://localhost:9000/auth/callback?state=abc", "")
	require.NoError(t, err)

	u, err := url.Parse(req.URL)
	require.NoError(t, err)
	assert.Equal(t, "wallet.testnet.near.org", u.Host)
	assert.Equal(t, "/login/", u.Path)
	assert.Equal(t, "nft.testnet", u.Query().Get("contract_id"))
	assert.Equal(t, req.PublicKey, u.Query().Get("public_key"))
	assert.Equal(t, "http://localhost:9000/auth/callback?state=abc", u.Query().Get("success_url"))
	assert.False(t, u.Query().Has("failure_url"))

	pending, err := near.KeyStore().HasKey(ctx, "testnet", PendingAccessKeyPrefix+req.PublicKey)
	require.NoError(t, err)
	assert.True(t, pending)

	require.NoError(t, w.CompleteSignIn(ctx, "alice.testnet", req.PublicKey, []string{req.PublicKey}))
	assert.True(t, w.IsSignedIn())
	assert.Equal(t, "alice.testnet", w.AccountID())

	kp, err := near.KeyStore().GetKey(ctx, "testnet", "alice.testnet")
	require.NoError(t, err)
	assert.Equal(t, req.PublicKey, kp.PublicKey())
	pending, err = near.KeyStore().HasKey(ctx, "testnet", PendingAccessKeyPrefix+req.PublicKey)
	require.NoError(t, err)
	assert.False(t, pending)

	// a fresh connection restores the session from storage
	restored, err := NewWalletConnection(ctx, near, "")
	require.NoError(t, err)
	assert.Equal(t, "alice.testnet", restored.AccountID())
	assert.Equal(t, []string{req.PublicKey}, restored.AuthData().AllKeys)

	require.NoError(t, w.SignOut(ctx))
	assert.False(t, w.IsSignedIn())
	_, ok, err := st.Raw(ctx, "nft.testnet_wallet_auth_key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompleteSignInRejectsUnknownKey(t *testing.T) {
	ctx := context.Background()
	near, _ := newTestNear(&fakeRPC{})
	w, err := NewWalletConnection(ctx, near, "app")
	require.NoError(t, err)

	err = w.CompleteSignIn(ctx, "alice.testnet", "ed25519:unknown", nil)
	assert.ErrorIs(t, err, core.ErrKeyPairNotFound)
	assert.False(t, w.IsSignedIn())

	err = w.CompleteSignIn(ctx, "", "", nil)
	assert.ErrorIs(t, err, core.ErrNotSignedIn)
}

func TestWalletIgnoresCorruptAuthData(t *testing.T) {
	ctx := context.Background()
	near, st := newTestNear(&fakeRPC{})
	require.NoError(t, st.Set(ctx, "nft.testnet_wallet_auth_key", "{broken"))

	w, err := NewWalletConnection(ctx, near, "")
	require.NoError(t, err)
	assert.False(t, w.IsSignedIn())
}

func TestGetBalance(t *testing.T) {
	ctx := context.Background()
	rpc := &fakeRPC{
		perByte: "10000000000000000000",
		accounts: map[string]*core.AccountState{
			// 12.3456789 NEAR, 1000 bytes of storage = 0.01 NEAR staked for state
			"alice.testnet": {Amount: "12345678900000000000000000", Locked: "0", StorageUsage: 1000},
		},
	}
	near, _ := newTestNear(rpc)
	facade := NewFacade(near)

	handles, err := facade.GetWallet(ctx)
	require.NoError(t, err)
	assert.Equal(t, "nft.testnet", handles.ContractAccount.AccountID())

	_, err = facade.GetBalance(ctx, handles.Wallet)
	assert.ErrorIs(t, err, core.ErrNotSignedIn)

	require.NoError(t, handles.Wallet.CompleteSignIn(ctx, "alice.testnet", "", nil))
	balance, err := facade.GetBalance(ctx, handles.Wallet)
	require.NoError(t, err)
	assert.Equal(t, "12.3357", balance)
}

func TestAccountBalanceUsesLockedWhenLarger(t *testing.T) {
	rpc := &fakeRPC{
		perByte: "10000000000000000000",
		accounts: map[string]*core.AccountState{
			"validator.testnet": {Amount: "1000000000000000000000000", Locked: "5000000000000000000000000", StorageUsage: 100},
		},
	}
	near, _ := newTestNear(rpc)

	b, err := near.Account("validator.testnet").Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "6000000000000000000000000", b.Total)
	assert.Equal(t, "5000000000000000000000000", b.Staked)
	assert.Equal(t, "1000000000000000000000", b.StateStaked)
	assert.Equal(t, "1000000000000000000000000", b.Available)
}

func TestIsAccountTaken(t *testing.T) {
	ctx := context.Background()
	rpc := &fakeRPC{accounts: map[string]*core.AccountState{"alice.testnet": {Amount: "1", Locked: "0"}}}
	near, _ := newTestNear(rpc)
	facade := NewFacade(near)

	taken, err := facade.IsAccountTaken(ctx, "alice.testnet")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = facade.IsAccountTaken(ctx, "ghost.testnet")
	require.NoError(t, err)
	assert.False(t, taken)

	rpc.failAccount = context.DeadlineExceeded
	_, err = facade.IsAccountTaken(ctx, "alice.testnet")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestViewFunction(t *testing.T) {
	rpc := &fakeRPC{views: map[string][]byte{"nft.testnet.nft_total_supply": []byte(`"3"`)}}
	near, _ := newTestNear(rpc)

	var supply string
	err := near.Account("nft.testnet").ViewFunction(context.Background(), "nft_total_supply", nil, &supply)
	require.NoError(t, err)
	assert.Equal(t, "3", supply)
	assert.Equal(t, "{}", rpc.viewArgs["nft_total_supply"])

	err = near.Account("nft.testnet").ViewFunction(context.Background(), "missing", nil, &supply)
	assert.ErrorContains(t, err, "MethodNotFound")
}

func TestFacadeHelpers(t *testing.T) {
	near, _ := newTestNear(&fakeRPC{})
	facade := NewFacade(near)

	assert.Equal(t, testNetwork, facade.Config())
	yocto, err := facade.ParseAmount("2.5")
	require.NoError(t, err)
	assert.Equal(t, "2500000000000000000000000", yocto)
	s, err := facade.FormatAmount(yocto, 4)
	require.NoError(t, err)
	assert.Equal(t, "2.5", s)
}
