package main

import "mth-wallet/cmd/wallet-cli/cmd"

func main() {
	cmd.Execute()
}
