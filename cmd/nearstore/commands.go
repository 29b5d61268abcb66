package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/layer-3/nearstore/wallet"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the network configuration for the selected environment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		network, err := cfg.Network()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), network)
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance [account]",
	Short: "Show the available balance of an account, or of the signed-in wallet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close(logger)

		if len(args) == 0 {
			balance, err := a.facade.GetBalance(cmd.Context(), a.handles.Wallet)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s NEAR\n", a.handles.Wallet.AccountID(), balance)
			return nil
		}

		balance, err := a.handles.Near.Account(args[0]).Balance(cmd.Context())
		if err != nil {
			return err
		}
		for _, row := range []struct{ label, yocto string }{
			{"total", balance.Total},
			{"state staked", balance.StateStaked},
			{"staked", balance.Staked},
			{"available", balance.Available},
		} {
			near, err := a.facade.FormatAmount(row.yocto, wallet.BalanceFractionDigits)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-13s %s NEAR\n", row.label+":", near)
		}
		return nil
	},
}

var accountTakenCmd = &cobra.Command{
	Use:   "account-taken <account>",
	Short: "Check whether an account id already exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close(logger)

		taken, err := a.facade.IsAccountTaken(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), taken)
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Print the persisted session status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close(logger)

		return printJSON(cmd.OutOrStdout(), a.sessions.Status())
	},
}

var signOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Forget the connected wallet account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close(logger)

		if err := a.auth.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "signed out")
		return nil
	},
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
