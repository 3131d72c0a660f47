package cmd

import (
	"fmt"
	"strconv"
	"time"

	"mth-wallet/internal/service/wallet"
	"mth-wallet/pkg/errno"
	"mth-wallet/pkg/mpc"

	"github.com/spf13/cobra"
)

func printAccount(a *wallet.AccountInfo) {
	marker := " "
	if a.IsSelected {
		marker = "*"
	}
	derived := "imported"
	switch {
	case a.DerivationPath != "":
		derived = a.DerivationPath
	case a.DerivationIndex != nil:
		derived = "seed #" + strconv.FormatUint(uint64(*a.DerivationIndex), 10)
	}
	fmt.Printf("%s [%d] %s  %s  %s\n", marker, a.Index, a.Address, derived, a.CreatedAt.Local().Format(time.DateTime))
}

func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil || index < 0 {
		return 0, errno.ErrValidation.WithMessage(fmt.Sprintf("invalid account index %q", s))
	}
	return index, nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "列出当前钱包的账户",
	Args:  cobra.NoArgs,
	RunE: withWallet(func(cmd *cobra.Command, args []string) error {
		accounts, err := manager.ListAccounts(cmd.Context())
		if err != nil {
			return err
		}
		for i := range accounts {
			printAccount(&accounts[i])
		}
		return nil
	}),
}

var addMnemonic string

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "在下一个派生索引上添加账户",
	Long:  `用钱包的助记词派生下一个账户。新账户不会被选中。`,
	Args:  cobra.NoArgs,
	RunE: withWallet(func(cmd *cobra.Command, args []string) error {
		mnemonic, err := mnemonicInput(addMnemonic)
		if err != nil {
			return err
		}
		var info *wallet.AccountInfo
		err = withPassword(false, func() (err error) {
			info, err = manager.AddAccount(cmd.Context(), mnemonic)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Println("账户已添加:")
		printAccount(info)
		return nil
	}),
}

var importKeyCmd = &cobra.Command{
	Use:   "import-key <private-key-hex>",
	Short: "导入外部私钥为新账户",
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(cmd *cobra.Command, args []string) error {
		var info *wallet.AccountInfo
		err := withPassword(false, func() (err error) {
			info, err = manager.ImportPrivateKey(cmd.Context(), args[0])
			return err
		})
		if err != nil {
			return err
		}
		fmt.Println("私钥已导入:")
		printAccount(info)
		return nil
	}),
}

var selectCmd = &cobra.Command{
	Use:   "select <index>",
	Short: "选中账户",
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		// 旧格式钱包在第一次写回时会重新加密，因此也可能需要口令
		if err := withPassword(false, func() error {
			return manager.SelectAccount(cmd.Context(), index)
		}); err != nil {
			return err
		}
		fmt.Printf("已选中账户 %d\n", index)
		return nil
	}),
}

var selectedCmd = &cobra.Command{
	Use:   "selected",
	Short: "显示当前选中的账户",
	Args:  cobra.NoArgs,
	RunE: withWallet(func(cmd *cobra.Command, args []string) error {
		info, err := manager.GetSelectedAccount(cmd.Context())
		if err != nil {
			return err
		}
		if info == nil {
			fmt.Println("没有选中的账户")
			return nil
		}
		printAccount(info)
		fmt.Printf("公钥 (Public Key): %s\n", info.PublicKey)
		return nil
	}),
}

var removeCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "删除账户 (不能删除最后一个)",
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		if err := withPassword(false, func() error {
			return manager.RemoveAccount(cmd.Context(), index)
		}); err != nil {
			return err
		}
		fmt.Printf("账户 %d 已删除\n", index)
		return nil
	}),
}

var (
	exportShares    int
	exportThreshold int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "导出选中账户的私钥",
	Long: `以明文输出选中账户的私钥。
指定 --shares 时改为输出 Shamir 分片，至少 --threshold 份才能用 "mth mpc recover" 恢复。`,
	Args: cobra.NoArgs,
	RunE: withWallet(func(cmd *cobra.Command, args []string) error {
		var key string
		err := withPassword(false, func() (err error) {
			key, err = manager.ExportPrivateKey(cmd.Context())
			return err
		})
		if err != nil {
			return err
		}

		if exportShares == 0 {
			fmt.Printf("私钥 (Private Key): %s\n", key)
			return nil
		}
		shares, err := mpc.Split(key, exportShares, exportThreshold)
		if err != nil {
			return errno.ErrValidation.Wrap(err)
		}
		fmt.Printf("🔐 私钥已切分为 %d 份 (恢复阈值: %d):\n", exportShares, exportThreshold)
		for i, share := range shares {
			fmt.Printf("Share %d: %s\n", i+1, share)
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(listCmd)

	addCmd.Flags().StringVarP(&addMnemonic, "mnemonic", "m", "", "钱包助记词 (默认从标准输入读取)")
	rootCmd.AddCommand(addCmd)

	rootCmd.AddCommand(importKeyCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(selectedCmd)
	rootCmd.AddCommand(removeCmd)

	exportCmd.Flags().IntVarP(&exportShares, "shares", "n", 0, "Shamir 分片总数 (N)，0 表示直接输出私钥")
	exportCmd.Flags().IntVarP(&exportThreshold, "threshold", "t", 2, "恢复阈值 (M)")
	rootCmd.AddCommand(exportCmd)
}
