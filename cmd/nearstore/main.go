package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/layer-3/nearstore/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	envFlag string
)

var rootCmd = &cobra.Command{
	Use:           "nearstore",
	Short:         "NFT store backed by the NEAR web wallet",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if envFlag != "" {
			cfg.NearEnv = envFlag
		}

		logger, err = newLogger(cfg.LogLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "NEAR environment (overrides NEAR_ENV)")
	rootCmd.AddCommand(serveCmd, configCmd, balanceCmd, accountTakenCmd, sessionCmd, signOutCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error("command failed", zap.Error(err))
		} else {
			rootCmd.PrintErrln("Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
