package wallet

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/storage"
)

const (
	loginWalletURLSuffix = "/login/"
	authDataKeySuffix    = "_wallet_auth_key"
)

// SignInRequest is where to send the user to approve a new access key
type SignInRequest struct {
	URL       string
	PublicKey string
}

// WalletConnection is the user's session with the NEAR web wallet
type WalletConnection struct {
	near        *Near
	authDataKey string

	mu       sync.RWMutex
	authData core.AuthData
}

// NewWalletConnection restores wallet auth data from storage. appKeyPrefix
// namespaces the auth data; it defaults to the contract name.
func NewWalletConnection(ctx context.Context, near *Near, appKeyPrefix string) (*WalletConnection, error) {
	if appKeyPrefix == "" {
		appKeyPrefix = near.config.ContractName
	}
	if appKeyPrefix == "" {
		appKeyPrefix = "default"
	}

	w := &WalletConnection{
		near:        near,
		authDataKey: appKeyPrefix + authDataKeySuffix,
	}
	authData, err := storage.Get(ctx, near.storage, w.authDataKey, core.AuthData{})
	if err != nil {
		return nil, fmt.Errorf("failed to restore wallet auth data: %w", err)
	}
	w.authData = authData
	return w, nil
}

// IsSignedIn reports whether an account is connected
func (w *WalletConnection) IsSignedIn() bool {
	return w.AccountID() != ""
}

// AccountID returns the connected account id, or ""
func (w *WalletConnection) AccountID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.authData.AccountID
}

// AuthData returns a copy of the current auth data
func (w *WalletConnection) AuthData() core.AuthData {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return core.AuthData{
		AccountID: w.authData.AccountID,
		AllKeys:   append([]string(nil), w.authData.AllKeys...),
	}
}

// RequestSignIn generates a pending access key and returns the wallet login
// URL that asks the user to add it for the contract.
func (w *WalletConnection) RequestSignIn(ctx context.Context, successURL, failureURL string) (*SignInRequest, error) {
	keyPair, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	publicKey := keyPair.PublicKey()

	cfg := w.near.config
	if err := w.near.keys.SetKey(ctx, cfg.NetworkID, PendingAccessKeyPrefix+publicKey, keyPair); err != nil {
		return nil, fmt.Errorf("failed to store pending key: %w", err)
	}

	params := url.Values{}
	params.Set("contract_id", cfg.ContractName)
	params.Set("public_key", publicKey)
	if successURL != "" {
		params.Set("success_url", successURL)
	}
	if failureURL != "" {
		params.Set("failure_url", failureURL)
	}

	return &SignInRequest{
		URL:       strings.TrimRight(cfg.WalletURL, "/") + loginWalletURLSuffix + "?" + params.Encode(),
		PublicKey: publicKey,
	}, nil
}

// CompleteSignIn records the account the wallet redirected back with. When
// publicKey is set, the matching pending key is promoted to the account.
func (w *WalletConnection) CompleteSignIn(ctx context.Context, accountID, publicKey string, allKeys []string) error {
	if accountID == "" {
		return fmt.Errorf("%w: wallet returned no account id", core.ErrNotSignedIn)
	}

	if publicKey != "" {
		if err := w.moveKeyFromTempToPermanent(ctx, accountID, publicKey); err != nil {
			return err
		}
	}

	authData := core.AuthData{AccountID: accountID, AllKeys: allKeys}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.near.storage.Set(ctx, w.authDataKey, authData); err != nil {
		return fmt.Errorf("failed to persist wallet auth data: %w", err)
	}
	w.authData = authData
	return nil
}

func (w *WalletConnection) moveKeyFromTempToPermanent(ctx context.Context, accountID, publicKey string) error {
	networkID := w.near.config.NetworkID
	pending := PendingAccessKeyPrefix + publicKey

	keyPair, err := w.near.keys.GetKey(ctx, networkID, pending)
	if err != nil {
		return fmt.Errorf("no pending sign-in for %s: %w", publicKey, err)
	}
	if err := w.near.keys.SetKey(ctx, networkID, accountID, keyPair); err != nil {
		return fmt.Errorf("failed to store access key: %w", err)
	}
	return w.near.keys.RemoveKey(ctx, networkID, pending)
}

// SignOut forgets the connected account
func (w *WalletConnection) SignOut(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.near.storage.Delete(ctx, w.authDataKey); err != nil {
		return fmt.Errorf("failed to clear wallet auth data: %w", err)
	}
	w.authData = core.AuthData{}
	return nil
}

// Account returns the handle of the connected account
func (w *WalletConnection) Account() (*Account, error) {
	accountID := w.AccountID()
	if accountID == "" {
		return nil, core.ErrNotSignedIn
	}
	return w.near.Account(accountID), nil
}
