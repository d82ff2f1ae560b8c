package prototype

import (
	"crypto/sha256"
	"encoding/hex"
	"math"

	"github.com/coschain/trxguard/common"
	"github.com/coschain/trxguard/common/constants"
	"github.com/coschain/trxguard/common/crypto"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// ChainId identifies the chain a transaction is signed for.
type ChainId struct {
	Value uint32
}

// RawTransaction is a transfer as it's received from clients or peers.
type RawTransaction struct {
	SenderPublicKey []byte `protobuf:"bytes,1,opt,name=sender_public_key,json=senderPublicKey,proto3" json:"sender_public_key,omitempty"`
	Recipient       string `protobuf:"bytes,2,opt,name=recipient,proto3" json:"recipient,omitempty"`
	Amount          uint64 `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Fee             uint64 `protobuf:"varint,4,opt,name=fee,proto3" json:"fee,omitempty"`
	Nonce           uint64 `protobuf:"varint,5,opt,name=nonce,proto3" json:"nonce,omitempty"`
	Timestamp       uint32 `protobuf:"varint,6,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	Signature       []byte `protobuf:"bytes,7,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (m *RawTransaction) Reset()         { *m = RawTransaction{} }
func (m *RawTransaction) String() string { return proto.CompactTextString(m) }
func (*RawTransaction) ProtoMessage()    {}

// Validate does structural checks which are independent from any signature or chain state.
func (m *RawTransaction) Validate() error {
	if m == nil {
		return ErrNpe
	}
	if len(m.SenderPublicKey) != constants.PubKeyLength {
		return ErrKeyLength
	}
	if len(m.Signature) != constants.SignatureLength {
		return ErrSigLength
	}
	if len(m.Recipient) == 0 {
		return ErrEmptyRecipient
	}
	if err := ValidateAddress(m.Recipient); err != nil {
		return errors.WithMessage(err, "recipient")
	}
	if m.Amount > math.MaxUint64-m.Fee {
		return ErrAmountOverflow
	}
	return nil
}

// Digest returns the message signed by the sender, sha256(chainId || body) where body is the
// transaction without signature.
func (m *RawTransaction) Digest(cid ChainId) ([]byte, error) {
	if m == nil {
		return nil, ErrNpe
	}
	body := *m
	body.Signature = nil
	buf, err := proto.Marshal(&body)
	if err != nil {
		return nil, err
	}
	h := sha256.New()
	h.Write(common.Uint32ToBytes(cid.Value))
	h.Write(buf)
	return h.Sum(nil), nil
}

// Id returns the content-derived identity, sha256 of the whole transaction including signature.
// It needs no signature verification.
func (m *RawTransaction) Id() (string, error) {
	if m == nil {
		return "", ErrNpe
	}
	buf, err := proto.Marshal(m)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:]), nil
}

// Size returns the encoded size in bytes.
func (m *RawTransaction) Size() int {
	return proto.Size(m)
}

// Sign fills the sender public key and signature using the given private key.
func (m *RawTransaction) Sign(key *crypto.SigPrivKey, cid ChainId) error {
	m.SenderPublicKey = key.Public().Compressed()
	digest, err := m.Digest(cid)
	if err != nil {
		return err
	}
	sig, err := key.Sign(digest)
	if err != nil {
		return err
	}
	m.Signature = sig
	return nil
}

// Encode returns the wire bytes.
func (m *RawTransaction) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeRawTransaction parses wire bytes.
func DecodeRawTransaction(data []byte) (*RawTransaction, error) {
	m := new(RawTransaction)
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	return m, nil
}
