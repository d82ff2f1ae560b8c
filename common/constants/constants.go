package constants

const (
	ChainName     = "contentos"
	CoinSymbol    = "COS"
	AddressPrefix = CoinSymbol

	// chain ids. they're mixed into signing digests so signatures can't be replayed across chains.
	MainChainId = 0
	TestChainId = 1
	DevChainId  = 2

	PubKeyLength    = 33
	SignatureLength = 65
	AddressChecksum = 4
	TrxIdLength     = 32

	MaxTransactionSize = 1024 * 8

	// a transaction stamped later than now + MaxFutureSeconds is refused
	MaxFutureSeconds = 15

	// notification topics published by the pool service
	NoticeTrxAdmitted = "trxadmitted"
	NoticeTrxRejected = "trxrejected"
	NoticeRunFinished = "guardrunfinished"

	// names of guard buckets
	BucketTransactions = "transactions"
	BucketAccept       = "accept"
	BucketExcess       = "excess"
	BucketInvalid      = "invalid"

	// fixed-point precision of stamina calculations
	LimitPrecision = 1000000
)
