package ports

import (
	"context"

	"github.com/layer-3/nearstore/core"
)

// NodeRPC is the subset of the NEAR JSON-RPC API the wallet facade consumes
type NodeRPC interface {
	ViewAccount(ctx context.Context, accountID string) (*core.AccountState, error)
	CallFunction(ctx context.Context, contractID, method string, args []byte) ([]byte, error)
	StorageAmountPerByte(ctx context.Context) (string, error)
}
