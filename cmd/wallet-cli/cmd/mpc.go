package cmd

import (
	"fmt"

	"mth-wallet/pkg/errno"
	"mth-wallet/pkg/mpc"

	"github.com/spf13/cobra"
)

var shares []string

func init() {
	rootCmd.AddCommand(mpcCmd)

	// Subcommand: recover
	mpcCmd.AddCommand(recoverCmd)
	recoverCmd.Flags().StringSliceVarP(&shares, "shares", "S", nil, "List of shares (comma separated)")
	_ = recoverCmd.MarkFlagRequired("shares")
}

var mpcCmd = &cobra.Command{
	Use:   "mpc",
	Short: "MPC / Secret Sharing tools",
	Long:  `Utilities for Shamir's Secret Sharing. Shares are produced by "mth export --shares N".`,
	// 不需要配置和钱包
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Recover a private key from M shares",
	Long:  `Recovers the key from the shares. Pass the result to "mth import-key" to restore the account.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(shares) < 2 {
			return errno.ErrValidation.WithMessage("at least 2 shares are required")
		}

		recovered, err := mpc.Recover(shares)
		if err != nil {
			return errno.ErrValidation.Wrap(err)
		}

		fmt.Printf("🔑 Recovered Secret: %s\n", recovered)
		return nil
	},
}
