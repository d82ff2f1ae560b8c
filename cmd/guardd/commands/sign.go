package commands

import (
	"encoding/json"
	"io/ioutil"
	"time"

	"github.com/coschain/cobra"
	"github.com/coschain/trxguard/common/crypto"
	"github.com/coschain/trxguard/prototype"
)

var (
	signKey    string
	signTo     string
	signAmount uint64
	signFee    uint64
	signNonce  uint64
	signOut    string
)

func SignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Create a signed transfer",
		Run:   sign,
	}
	cmd.Flags().StringVarP(&signKey, "key", "k", "", "hex private key of the sender")
	cmd.Flags().StringVarP(&signTo, "to", "t", "", "recipient address")
	cmd.Flags().Uint64VarP(&signAmount, "amount", "a", 0, "amount to transfer")
	cmd.Flags().Uint64VarP(&signFee, "fee", "f", 0, "fee to pay")
	cmd.Flags().Uint64Var(&signNonce, "nonce", 0, "sender nonce")
	cmd.Flags().StringVarP(&signOut, "output", "o", "", "output file, stdout if empty")
	return cmd
}

func sign(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fatal(err)
	}
	key, err := crypto.ConstructKeyFromString(signKey)
	if err != nil {
		fatal(err)
	}
	raw := &prototype.RawTransaction{
		Recipient: signTo,
		Amount:    signAmount,
		Fee:       signFee,
		Nonce:     signNonce,
		Timestamp: uint32(time.Now().Unix()),
	}
	if err = raw.Sign(key, prototype.ChainId{Value: cfg.ChainId}); err != nil {
		fatal(err)
	}
	if err = raw.Validate(); err != nil {
		fatal(err)
	}
	if signOut == "" {
		printJson(raw)
		return
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		fatal(err)
	}
	if err = ioutil.WriteFile(signOut, data, 0600); err != nil {
		fatal(err)
	}
}
