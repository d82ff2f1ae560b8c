package prototype

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// Wallet is the account state of an address.
type Wallet struct {
	Address   string `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	PublicKey []byte `protobuf:"bytes,2,opt,name=public_key,json=publicKey,proto3" json:"public_key,omitempty"`
	Balance   uint64 `protobuf:"varint,3,opt,name=balance,proto3" json:"balance,omitempty"`
	Nonce     uint64 `protobuf:"varint,4,opt,name=nonce,proto3" json:"nonce,omitempty"`
}

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

// NewWallet creates an empty wallet of given address.
func NewWallet(address string) *Wallet {
	return &Wallet{Address: address}
}

// HasKey tells if a public key was bound to the wallet by an outgoing transaction.
func (m *Wallet) HasKey() bool {
	return len(m.PublicKey) > 0
}

// KeyMatches checks if key may sign for the wallet.
func (m *Wallet) KeyMatches(key []byte) bool {
	return !m.HasKey() || bytes.Equal(m.PublicKey, key)
}

func (m *Wallet) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

func DecodeWallet(data []byte) (*Wallet, error) {
	w := new(Wallet)
	if err := proto.Unmarshal(data, w); err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	return w, nil
}
