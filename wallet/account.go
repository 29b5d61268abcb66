package wallet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/layer-3/nearstore/core"
	"github.com/shopspring/decimal"
)

// Account is a handle to one on-chain account
type Account struct {
	near      *Near
	accountID string
}

// AccountID returns the account id
func (a *Account) AccountID() string {
	return a.accountID
}

// State returns the account's current state
func (a *Account) State(ctx context.Context) (*core.AccountState, error) {
	state, err := a.near.rpc.ViewAccount(ctx, a.accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to view account %s: %w", a.accountID, err)
	}
	return state, nil
}

// Balance computes total, staked and available balance in yoctoNEAR.
// Available is total minus the larger of locked stake and storage stake.
func (a *Account) Balance(ctx context.Context) (*core.AccountBalance, error) {
	perByte, err := a.near.rpc.StorageAmountPerByte(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get protocol config: %w", err)
	}
	state, err := a.State(ctx)
	if err != nil {
		return nil, err
	}

	costPerByte, err := decimal.NewFromString(perByte)
	if err != nil {
		return nil, fmt.Errorf("invalid storage_amount_per_byte %q: %w", perByte, err)
	}
	amount, err := decimal.NewFromString(state.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid account amount %q: %w", state.Amount, err)
	}
	staked, err := decimal.NewFromString(state.Locked)
	if err != nil {
		return nil, fmt.Errorf("invalid locked amount %q: %w", state.Locked, err)
	}

	stateStaked := decimal.NewFromInt(int64(state.StorageUsage)).Mul(costPerByte)
	total := amount.Add(staked)
	available := total.Sub(decimal.Max(staked, stateStaked))

	return &core.AccountBalance{
		Total:       total.String(),
		StateStaked: stateStaked.String(),
		Staked:      staked.String(),
		Available:   available.String(),
	}, nil
}

// ViewFunction calls a read-only contract method on this account and decodes
// the JSON result into out. A nil args sends an empty object; a nil out
// discards the result.
func (a *Account) ViewFunction(ctx context.Context, method string, args any, out any) error {
	if args == nil {
		args = struct{}{}
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode args for %s: %w", method, err)
	}

	raw, err := a.near.rpc.CallFunction(ctx, a.accountID, method, encoded)
	if err != nil {
		return fmt.Errorf("view %s.%s: %w", a.accountID, method, err)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
