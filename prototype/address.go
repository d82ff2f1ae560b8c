package prototype

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"

	"github.com/coschain/trxguard/common/constants"
	"github.com/itchyny/base58-go"
)

// AddressFromPublicKey derives the wallet address of a compressed public key.
// The address is the coin symbol followed by base58(key || checksum), where checksum is the first
// 4 bytes of double sha256 of the key.
//
// fixme: the base58 package works on decimal strings, so key data prefixed by 0x00 bytes can't round trip.
// ecc compressed public keys are always prefixed by 0x02 or 0x03, so it's fine for now.
func AddressFromPublicKey(pubKey []byte) string {
	data := make([]byte, 0, len(pubKey)+constants.AddressChecksum)
	data = append(data, pubKey...)
	data = append(data, addressChecksum(pubKey)...)

	bi := new(big.Int).SetBytes(data).String()
	encoded, _ := base58.BitcoinEncoding.Encode([]byte(bi))
	return fmt.Sprintf("%s%s", constants.AddressPrefix, string(encoded))
}

// PublicKeyFromAddress extracts the public key encoded in an address.
func PublicKeyFromAddress(address string) ([]byte, error) {
	if len(address) <= len(constants.AddressPrefix) || !strings.HasPrefix(address, constants.AddressPrefix) {
		return nil, ErrAddressFormat
	}
	decoded, err := base58.BitcoinEncoding.Decode([]byte(address[len(constants.AddressPrefix):]))
	if err != nil {
		return nil, ErrAddressFormat
	}
	x, ok := new(big.Int).SetString(string(decoded), 10)
	if !ok {
		return nil, ErrAddressFormat
	}
	buf := x.Bytes()
	if len(buf) != constants.PubKeyLength+constants.AddressChecksum {
		return nil, ErrAddressFormat
	}
	key, sum := buf[:constants.PubKeyLength], buf[constants.PubKeyLength:]
	if !bytes.Equal(addressChecksum(key), sum) {
		return nil, ErrAddressFormat
	}
	return key, nil
}

// ValidateAddress checks the format and checksum of an address.
func ValidateAddress(address string) error {
	_, err := PublicKeyFromAddress(address)
	return err
}

func addressChecksum(data []byte) []byte {
	temp := sha256.Sum256(data)
	temps := sha256.Sum256(temp[:])
	return temps[:constants.AddressChecksum]
}
