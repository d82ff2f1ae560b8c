package prototype

import "encoding/hex"

// Transaction is the structured form of a RawTransaction which passed decoding and signature checks.
// It's created once and never changed afterwards.
type Transaction struct {
	Id              string          // content-derived identity
	Raw             *RawTransaction // the original transaction
	SenderPublicKey []byte          // compressed public key of the sender
	SenderAddress   string          // address derived from SenderPublicKey
	Recipient       string
	Amount          uint64
	Fee             uint64
	Nonce           uint64
	Timestamp       uint32
	Size            int  // encoded size in bytes
	Verified        bool // true if the signature matches SenderPublicKey
}

// NewTransaction creates an unverified Transaction of raw.
func NewTransaction(id string, raw *RawTransaction) *Transaction {
	return &Transaction{
		Id:              id,
		Raw:             raw,
		SenderPublicKey: raw.SenderPublicKey,
		SenderAddress:   AddressFromPublicKey(raw.SenderPublicKey),
		Recipient:       raw.Recipient,
		Amount:          raw.Amount,
		Fee:             raw.Fee,
		Nonce:           raw.Nonce,
		Timestamp:       raw.Timestamp,
		Size:            raw.Size(),
	}
}

// Cost is the total amount debited from the sender.
func (t *Transaction) Cost() uint64 {
	return t.Amount + t.Fee
}

func (t *Transaction) SenderKeyHex() string {
	return hex.EncodeToString(t.SenderPublicKey)
}
