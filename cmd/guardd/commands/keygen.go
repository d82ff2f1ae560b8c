package commands

import (
	"github.com/coschain/cobra"
	"github.com/coschain/trxguard/common/crypto"
	"github.com/coschain/trxguard/prototype"
)

func KeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair and its wallet address",
		Run:   keygen,
	}
}

func keygen(cmd *cobra.Command, args []string) {
	key, err := crypto.GenerateKey()
	if err != nil {
		fatal(err)
	}
	pub := key.Public()
	printJson(map[string]string{
		"private_key": key.ToString(),
		"public_key":  pub.ToString(),
		"address":     prototype.AddressFromPublicKey(pub.Compressed()),
	})
}
