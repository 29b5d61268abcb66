// Package wallet is the NEAR wallet/account facade: a connection to a node,
// the browser-style wallet connection with its key store, account handles and
// amount helpers.
package wallet

import (
	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/ports"
	"github.com/layer-3/nearstore/storage"
)

// Near is a connection to one NEAR network
type Near struct {
	config  core.NetworkConfig
	rpc     ports.NodeRPC
	storage *storage.Adapter
	keys    *KeyStore
}

// Connect binds a network config to a node client and local storage
func Connect(cfg core.NetworkConfig, rpc ports.NodeRPC, st *storage.Adapter) *Near {
	return &Near{
		config:  cfg,
		rpc:     rpc,
		storage: st,
		keys:    NewKeyStore(st),
	}
}

// Config returns the network configuration
func (n *Near) Config() core.NetworkConfig {
	return n.config
}

// RPC returns the node client
func (n *Near) RPC() ports.NodeRPC {
	return n.rpc
}

// KeyStore returns the access key store
func (n *Near) KeyStore() *KeyStore {
	return n.keys
}

// Account returns a handle for accountID
func (n *Near) Account(accountID string) *Account {
	return &Account{near: n, accountID: accountID}
}
