package app

import "github.com/pkg/errors"

// rejection reasons of the wallet ledger
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNonceMismatch       = errors.New("nonce mismatch")
	ErrKeyMismatch         = errors.New("sender key doesn't match the wallet")
	ErrBalanceOverflow     = errors.New("balance overflow")
	ErrBadWalletKey        = errors.New("neither a public key nor an address")
	ErrNotRevertible       = errors.New("transaction is not the last applied one of its sender")
	ErrSnapshotClosed      = errors.New("ledger snapshot already committed or discarded")
)

// rejection reasons of the fee policy
var (
	ErrFeeTooLow         = errors.New("fee below required minimum")
	ErrFeeAboveSenderMax = errors.New("fee above the sender's maximum")
	ErrFeeRejected       = errors.New("fee rejected by policy")
)

// rejection reasons of the pool store
var (
	ErrExcess          = errors.New("exceeds rate or capacity limit")
	ErrDependsOnExcess = errors.New("depends on a transaction classified as excess")
)

// verification failures
var (
	ErrTrxTooLarge    = errors.New("transaction too large")
	ErrTrxFromFuture  = errors.New("transaction timestamp too far in the future")
	ErrSignerMismatch = errors.New("signature doesn't match sender key")
)
