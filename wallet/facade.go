package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/layer-3/nearstore/core"
)

// BalanceFractionDigits is how many NEAR decimals GetBalance shows
const BalanceFractionDigits = 4

// Handles bundles what GetWallet hands out
type Handles struct {
	Near            *Near
	Wallet          *WalletConnection
	ContractAccount *Account
}

// Facade is the entry point views and services use to reach the network
type Facade struct {
	near *Near
}

// NewFacade wraps an established connection
func NewFacade(near *Near) *Facade {
	return &Facade{near: near}
}

// Config returns the active network configuration
func (f *Facade) Config() core.NetworkConfig {
	return f.near.config
}

// GetWallet restores the wallet connection and returns it with the contract account
func (f *Facade) GetWallet(ctx context.Context) (*Handles, error) {
	w, err := NewWalletConnection(ctx, f.near, "")
	if err != nil {
		return nil, err
	}
	return &Handles{
		Near:            f.near,
		Wallet:          w,
		ContractAccount: f.near.Account(f.near.config.ContractName),
	}, nil
}

// GetBalance returns the signed-in account's available balance in NEAR,
// formatted to BalanceFractionDigits.
func (f *Facade) GetBalance(ctx context.Context, w *WalletConnection) (string, error) {
	account, err := w.Account()
	if err != nil {
		return "", err
	}
	balance, err := account.Balance(ctx)
	if err != nil {
		return "", err
	}
	return FormatAmount(balance.Available, BalanceFractionDigits)
}

// IsAccountTaken reports whether accountID exists on chain. Only the
// account-does-not-exist failure maps to false; other errors are returned.
func (f *Facade) IsAccountTaken(ctx context.Context, accountID string) (bool, error) {
	_, err := f.near.Account(accountID).State(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, core.ErrAccountNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check account %s: %w", accountID, err)
}

// ParseAmount converts NEAR to a yoctoNEAR integer string
func (f *Facade) ParseAmount(amount string) (string, error) {
	return ParseAmount(amount)
}

// FormatAmount converts yoctoNEAR to a NEAR display string
func (f *Facade) FormatAmount(yocto string, fracDigits int) (string, error) {
	return FormatAmount(yocto, fracDigits)
}
