package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"

	"github.com/layer-3/nearstore/adapters/near"
	"github.com/layer-3/nearstore/adapters/store"
	"github.com/layer-3/nearstore/adapters/tokenizer"
	"github.com/layer-3/nearstore/config"
	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/ports"
	"github.com/layer-3/nearstore/service"
	"github.com/layer-3/nearstore/storage"
	"github.com/layer-3/nearstore/wallet"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds the wired components shared by all commands
type app struct {
	network  core.NetworkConfig
	redis    *redis.Client
	facade   *wallet.Facade
	handles  *wallet.Handles
	sessions *service.SessionStore
	auth     *service.AuthService

	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	network, err := cfg.Network()
	if err != nil {
		return nil, err
	}

	a := &app{network: network}

	backend, err := a.openStore(cfg, logger)
	if err != nil {
		a.Close(logger)
		return nil, err
	}
	st := storage.New(backend)

	rpc := near.NewClient(network.NodeURL, cfg.RPCTimeout, logger)
	a.facade = wallet.NewFacade(wallet.Connect(network, rpc, st))
	a.handles, err = a.facade.GetWallet(ctx)
	if err != nil {
		a.Close(logger)
		return nil, err
	}

	// Sign-in state tokens only need to outlive one wallet round-trip
	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		a.Close(logger)
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	a.sessions = service.NewSessionStore(ctx, st, logger)
	a.auth = service.NewAuthService(tokenizer.NewJWTTokenizer(signKey), backend, a.facade, a.handles.Wallet, a.sessions, logger)
	return a, nil
}

func (a *app) openStore(cfg *config.Config, logger *zap.Logger) (ports.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		client, err := a.redisClient(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client), nil
	default:
		bs, err := store.OpenBadger(cfg.BadgerPath, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, bs.Close)
		return bs, nil
	}
}

// redisClient lazily connects once for both the store and the event stream
func (a *app) redisClient(cfg *config.Config) (*redis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	a.redis = redis.NewClient(opts)
	a.closers = append(a.closers, a.redis.Close)
	return a.redis, nil
}

func (a *app) Close(logger *zap.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("failed to close resource", zap.Error(err))
		}
	}
	a.closers = nil
}
