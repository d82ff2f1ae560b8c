package iservices

import (
	"context"

	"github.com/coschain/trxguard/prototype"
)

//
// This file defines interfaces of collaborators of the admission guard.
//

// IPoolStore is the storage of pending transactions.
type IPoolStore interface {
	// ExistsById checks if a transaction of given identity is already in the pool.
	ExistsById(id string) (bool, error)

	// DetermineExcess partitions already-validated transactions into accepted ones and ones exceeding
	// rate or capacity limits. Input order is kept in both partitions.
	DetermineExcess(ctx context.Context, trxs []*prototype.Transaction, isBroadcast bool) (accept, excess []*prototype.Transaction, err error)
}

// ITrxAdapter turns raw transactions into verified ones.
type ITrxAdapter interface {
	// Identity derives the content identity of a raw transaction without verifying it.
	Identity(raw *prototype.RawTransaction) (string, error)

	// DecodeAndVerify decodes raw and checks its signature.
	// The returned transaction has Verified set only if all checks passed.
	DecodeAndVerify(raw *prototype.RawTransaction) (*prototype.Transaction, error)
}

// IFeePolicy decides whether declared fees are acceptable.
type IFeePolicy interface {
	// Evaluate partitions trxs into fee-acceptable and fee-rejected ones, keeping input order.
	Evaluate(ctx context.Context, trxs []*prototype.Transaction, isBroadcast bool) (matching, rejected []*prototype.Transaction, err error)
}

// IWalletLedger stores wallet states.
type IWalletLedger interface {
	// GetWalletByKey returns the wallet of a hex public key or an address.
	// Unknown wallets are returned as empty ones, not errors.
	GetWalletByKey(key string) (*prototype.Wallet, error)

	// CanApply returns nil if trx can be applied to its sender wallet w, otherwise the rejection reason.
	CanApply(w *prototype.Wallet, trx *prototype.Transaction) error

	// Apply debits the sender, credits the recipient and advances the sender nonce.
	Apply(trx *prototype.Transaction) error
}

// IRevertibleLedger is a ledger which can undo applied transactions.
type IRevertibleLedger interface {
	IWalletLedger

	// Revert is the exact inverse of Apply.
	Revert(trx *prototype.Transaction) error
}

// IFeeExplainer is optionally implemented by fee policies to tell why a transaction was rejected.
type IFeeExplainer interface {
	Explain(trx *prototype.Transaction, isBroadcast bool) error
}
