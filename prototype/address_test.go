package prototype

import (
	"strings"
	"testing"

	"github.com/coschain/trxguard/common/constants"
	"github.com/coschain/trxguard/common/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	a := assert.New(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	pub := key.Public().Compressed()
	addr := AddressFromPublicKey(pub)
	a.True(strings.HasPrefix(addr, constants.AddressPrefix))
	a.NoError(ValidateAddress(addr))

	decoded, err := PublicKeyFromAddress(addr)
	a.NoError(err)
	a.Equal(pub, decoded)

	a.Equal(ErrAddressFormat, ValidateAddress(""))
	a.Equal(ErrAddressFormat, ValidateAddress("COS"))
	a.Equal(ErrAddressFormat, ValidateAddress("XYZ"+addr[3:]))

	// flip the last character to break the checksum
	last := addr[len(addr)-1]
	repl := byte('2')
	if last == repl {
		repl = '3'
	}
	a.Error(ValidateAddress(addr[:len(addr)-1] + string(repl)))
}
