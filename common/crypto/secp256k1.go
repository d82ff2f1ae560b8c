package crypto

import (
	"crypto/ecdsa"
	"encoding/hex"

	"github.com/coschain/trxguard/common/constants"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

var (
	ErrDigestLength    = errors.New("digest must be 32 bytes")
	ErrSignatureLength = errors.New("signature must be 65 bytes")
	ErrPubKeyLength    = errors.New("compressed public key must be 33 bytes")
)

// SigPrivKey secp256k1 private key
type SigPrivKey struct {
	p *ecdsa.PrivateKey
}

// ToString converts the private key to a hex string
func (spk *SigPrivKey) ToString() string {
	return hex.EncodeToString(ethcrypto.FromECDSA(spk.p))
}

// Public returns public key correspond to private key
func (spk *SigPrivKey) Public() *SigPubKey {
	return &SigPubKey{p: &spk.p.PublicKey}
}

// Sign signs a 32-byte digest.
// The returned signature is 65 bytes, [R || S || V], where V is the recovery id.
func (spk *SigPrivKey) Sign(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, ErrDigestLength
	}
	return ethcrypto.Sign(digest, spk.p)
}

// SigPubKey secp256k1 public key
type SigPubKey struct {
	p *ecdsa.PublicKey
}

// Compressed returns the 33-byte compressed form of the key.
func (spk *SigPubKey) Compressed() []byte {
	return ethcrypto.CompressPubkey(spk.p)
}

// ToString converts the public key to a hex string of its compressed form
func (spk *SigPubKey) ToString() string {
	return hex.EncodeToString(spk.Compressed())
}

// Verify verifies the sig against the digest.
// Only the first 64 bytes of sig are used, the recovery id is not needed for standard verification.
func (spk *SigPubKey) Verify(digest, sig []byte) bool {
	if len(digest) != 32 || len(sig) < 64 {
		return false
	}
	return ethcrypto.VerifySignature(spk.Compressed(), digest, sig[:64])
}

// GenerateKey generates a private key
func GenerateKey() (*SigPrivKey, error) {
	p, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &SigPrivKey{p: p}, nil
}

// ConstructKeyFromString creates a private key from its hex string
func ConstructKeyFromString(keyStr string) (*SigPrivKey, error) {
	data, err := hex.DecodeString(keyStr)
	if err != nil {
		return nil, errors.Wrap(err, "private key is not hex")
	}
	p, err := ethcrypto.ToECDSA(data)
	if err != nil {
		return nil, err
	}
	return &SigPrivKey{p: p}, nil
}

// PubKeyFromBytes parses a compressed public key
func PubKeyFromBytes(data []byte) (*SigPubKey, error) {
	if len(data) != constants.PubKeyLength {
		return nil, ErrPubKeyLength
	}
	p, err := ethcrypto.DecompressPubkey(data)
	if err != nil {
		return nil, err
	}
	return &SigPubKey{p: p}, nil
}

// RecoverPubKey recovers the compressed public key which produced sig over digest.
func RecoverPubKey(digest, sig []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, ErrDigestLength
	}
	if len(sig) != constants.SignatureLength {
		return nil, ErrSignatureLength
	}
	p, err := ethcrypto.SigToPub(digest, sig)
	if err != nil {
		return nil, errors.Wrap(err, "recover error")
	}
	return ethcrypto.CompressPubkey(p), nil
}
