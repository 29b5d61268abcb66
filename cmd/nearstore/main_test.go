package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/layer-3/nearstore/config"
	"github.com/layer-3/nearstore/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")
	envFlag = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config", "--env", "testnet")
	require.NoError(t, err)

	var network core.NetworkConfig
	require.NoError(t, json.Unmarshal([]byte(out), &network))
	assert.Equal(t, "testnet", network.NetworkID)
	assert.Equal(t, config.ContractName, network.ContractName)
}

func TestConfigCommandUnknownEnv(t *testing.T) {
	_, err := execute(t, "config", "--env", "mainnet")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnconfiguredEnvironment)
	assert.Contains(t, err.Error(), "Unconfigured environment 'mainnet'")
}

func TestSessionCommand(t *testing.T) {
	out, err := execute(t, "session")
	require.NoError(t, err)

	var status core.SessionStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.False(t, status.IsSignedIn)
}

func TestSignOutCommand(t *testing.T) {
	out, err := execute(t, "signout")
	require.NoError(t, err)
	assert.Equal(t, "signed out\n", out)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = newLogger("loud")
	assert.Error(t, err)
}
