package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/layer-3/nearstore/adapters/events"
	"github.com/layer-3/nearstore/config"
	"github.com/layer-3/nearstore/service"
	transport "github.com/layer-3/nearstore/transport/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cfg, logger)
	},
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close(logger)

	publisher, err := a.sessionPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()
	a.sessions.Subscribe(events.NewWatermillPublisher(publisher))

	if err := a.auth.Sync(ctx); err != nil {
		return err
	}

	router := transport.SetupRouter(transport.Deps{
		Auth:      a.auth,
		Market:    service.NewMarketService(a.handles.ContractAccount, a.network),
		Sessions:  a.sessions,
		Facade:    a.facade,
		Logger:    logger,
		PublicURL: cfg.PublicURL,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("network", a.network.NetworkID),
			zap.String("contract", a.network.ContractName))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	logger.Info("HTTP server gracefully stopped")
	return nil
}

// sessionPublisher returns the publisher session changes go to. The in-process
// channel is also consumed locally so events show up in the log.
func (a *app) sessionPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (message.Publisher, error) {
	wmLogger := watermill.NewStdLogger(false, false)

	if cfg.EventsDriver == "redis" {
		client, err := a.redisClient(cfg)
		if err != nil {
			return nil, err
		}
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: client,
			},
			wmLogger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis publisher: %w", err)
		}
		return publisher, nil
	}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
	if err := events.LogSessionEvents(ctx, pubSub, logger); err != nil {
		_ = pubSub.Close()
		return nil, err
	}
	return pubSub, nil
}
