package prototype

import "github.com/pkg/errors"

var (
	ErrNpe            = errors.New("Null Pointer")
	ErrKeyLength      = errors.New("Key Length Error")
	ErrSigLength      = errors.New("Signature Length Error")
	ErrAddressFormat  = errors.New("Address Format Error")
	ErrEmptyRecipient = errors.New("Empty Recipient")
	ErrAmountOverflow = errors.New("Amount Overflow")
	ErrDecode         = errors.New("Decode Error")
)
