//go:build !devnet
// +build !devnet

package constants

const (
	// stamina window of the rate limiter, in seconds
	WindowSize = 60 * 60

	// default per-sender stamina capacity within a window, in bytes of transactions
	DefaultSenderCapacity = 64 * 1024

	// default stamina for relayed transactions of a sender
	DefaultRelayCapacity = 16 * 1024

	// default upper bound of pending transactions
	DefaultMaxPending = 200000

	DefaultMinFee = 1

	ClientName = "Cos-guard"
)
