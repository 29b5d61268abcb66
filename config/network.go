package config

import (
	"fmt"

	"github.com/layer-3/nearstore/core"
)

// ContractName is the NFT contract the store talks to
const ContractName = "dev-1624406486386-79437689012031"

// UnconfiguredEnvironmentError is returned by GetConfig for unknown environments
type UnconfiguredEnvironmentError struct {
	Env string
}

func (e *UnconfiguredEnvironmentError) Error() string {
	return fmt.Sprintf("Unconfigured environment '%s'. Can be configured in config/network.go.", e.Env)
}

func (e *UnconfiguredEnvironmentError) Is(target error) bool {
	return target == core.ErrUnconfiguredEnvironment
}

// GetConfig returns the network configuration for the named environment
func GetConfig(env string) (core.NetworkConfig, error) {
	switch env {
	case "testnet":
		return core.NetworkConfig{
			NetworkID:    "testnet",
			NodeURL:      "https://rpc.testnet.near.org",
			ContractName: ContractName,
			WalletURL:    "https://wallet.testnet.near.org",
			HelperURL:    "https://helper.testnet.near.org",
			ExplorerURL:  "https://explorer.testnet.near.org",
			GasLimit:     "200000000000000",
			TokenType:    "nft-2048",
		}, nil
	default:
		return core.NetworkConfig{}, &UnconfiguredEnvironmentError{Env: env}
	}
}
