package cmd

import (
	"fmt"

	"mth-wallet/internal/service/wallet"

	"github.com/spf13/cobra"
)

var signCmd = &cobra.Command{
	Use:   "sign <hex-data>",
	Short: "用选中账户对交易载荷签名",
	Long:  `对 SHA-256(data) 做 secp256k1 签名，输出 64 字节 R||S 签名。`,
	Args:  cobra.ExactArgs(1),
	RunE: withWallet(func(cmd *cobra.Command, args []string) error {
		var res *wallet.SignResult
		err := withPassword(false, func() (err error) {
			res, err = manager.SignTransaction(cmd.Context(), args[0])
			return err
		})
		if err != nil {
			return err
		}
		fmt.Printf("签名 (Signature):  %s\n", res.Signature)
		fmt.Printf("哈希 (Hash):       %s\n", res.Hash)
		fmt.Printf("公钥 (Public Key): %s\n", res.PublicKey)
		fmt.Printf("地址 (Address):    %s\n", res.Address)
		return nil
	}),
}

var verifyPublicKey string

var verifyCmd = &cobra.Command{
	Use:   "verify <hex-data> <signature>",
	Short: "校验签名",
	Long:  `校验 data 的签名。未指定 --pubkey 时使用选中账户的公钥。`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if verifyPublicKey == "" {
			if err := loadWallet(cmd.Context()); err != nil {
				return err
			}
		}
		ok, err := manager.VerifySignature(cmd.Context(), args[0], args[1], verifyPublicKey)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("signature is invalid")
		}
		fmt.Println("✅ 签名有效")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signCmd)

	verifyCmd.Flags().StringVarP(&verifyPublicKey, "pubkey", "p", "", "公钥 (Hex)")
	rootCmd.AddCommand(verifyCmd)
}
