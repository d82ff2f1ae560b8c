//go:build devnet
// +build devnet

package constants

const (
	WindowSize            = 60
	DefaultSenderCapacity = 1024 * 1024
	DefaultRelayCapacity  = 1024 * 1024
	DefaultMaxPending     = 10000
	DefaultMinFee         = 0

	ClientName = "Cos-guard-devnet"
)
