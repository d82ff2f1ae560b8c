package app

import (
	"encoding/hex"
	"strings"
	"sync"

	"github.com/coschain/trxguard/common/constants"
	"github.com/coschain/trxguard/db/storage"
	"github.com/coschain/trxguard/mylog"
	"github.com/coschain/trxguard/prototype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const sWalletNamespace = "wallet"

// WalletLedger keeps wallet states in a database, keyed by address.
type WalletLedger struct {
	root    storage.Database // database the ledger was created on
	wallets storage.Database // the wallet namespace of root
	log     *logrus.Logger
	lock    sync.Mutex // serializes mutations, held by an open snapshot
}

func NewWalletLedger(db storage.Database, logger *logrus.Logger) *WalletLedger {
	return &WalletLedger{
		root:    db,
		wallets: storage.NewNamespace(db, sWalletNamespace),
		log:     mylog.OrDiscard(logger),
	}
}

// AddressOfKey converts a hex public key or an address to an address.
func AddressOfKey(key string) (string, error) {
	if strings.HasPrefix(key, constants.AddressPrefix) {
		if err := prototype.ValidateAddress(key); err != nil {
			return "", errors.Wrap(ErrBadWalletKey, key)
		}
		return key, nil
	}
	data, err := hex.DecodeString(key)
	if err != nil || len(data) != constants.PubKeyLength {
		return "", errors.Wrap(ErrBadWalletKey, key)
	}
	return prototype.AddressFromPublicKey(data), nil
}

func (l *WalletLedger) load(address string) (*prototype.Wallet, error) {
	data, err := l.wallets.Get([]byte(address))
	if err == storage.ErrNotFound {
		return prototype.NewWallet(address), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load wallet %s", address)
	}
	return prototype.DecodeWallet(data)
}

func (l *WalletLedger) save(b storage.Batch, wallets ...*prototype.Wallet) error {
	for _, w := range wallets {
		data, err := w.Encode()
		if err != nil {
			return err
		}
		if err = b.Put([]byte(w.Address), data); err != nil {
			return err
		}
	}
	return nil
}

func (l *WalletLedger) write(wallets ...*prototype.Wallet) error {
	b := l.wallets.NewBatch()
	defer l.wallets.DeleteBatch(b)
	if err := l.save(b, wallets...); err != nil {
		return err
	}
	return b.Write()
}

// GetWalletByKey returns the wallet of a hex public key or an address.
// An empty wallet is returned if the address has no record.
func (l *WalletLedger) GetWalletByKey(key string) (*prototype.Wallet, error) {
	address, err := AddressOfKey(key)
	if err != nil {
		return nil, err
	}
	return l.load(address)
}

// CanApply checks the sender wallet w against trx.
func (l *WalletLedger) CanApply(w *prototype.Wallet, trx *prototype.Transaction) error {
	if w == nil || trx == nil {
		return prototype.ErrNpe
	}
	if !w.KeyMatches(trx.SenderPublicKey) {
		return errors.Wrapf(ErrKeyMismatch, "wallet %s", w.Address)
	}
	if trx.Nonce != w.Nonce {
		return errors.Wrapf(ErrNonceMismatch, "expecting %d, got %d", w.Nonce, trx.Nonce)
	}
	if w.Balance < trx.Cost() {
		return errors.Wrapf(ErrInsufficientBalance, "balance %d < %d", w.Balance, trx.Cost())
	}
	return nil
}

// sides loads the sender and recipient wallets of trx, which are the same object for self transfers.
func (l *WalletLedger) sides(trx *prototype.Transaction) (sender, recipient *prototype.Wallet, err error) {
	if sender, err = l.load(trx.SenderAddress); err != nil {
		return
	}
	if trx.Recipient == trx.SenderAddress {
		return sender, sender, nil
	}
	recipient, err = l.load(trx.Recipient)
	return
}

// Apply debits amount and fee from the sender, credits amount to the recipient, advances the
// sender nonce and binds the sender key.
func (l *WalletLedger) Apply(trx *prototype.Transaction) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	sender, recipient, err := l.sides(trx)
	if err != nil {
		return err
	}
	if err = l.CanApply(sender, trx); err != nil {
		return err
	}
	sender.Balance -= trx.Cost()
	sender.Nonce++
	if !sender.HasKey() {
		sender.PublicKey = append([]byte(nil), trx.SenderPublicKey...)
	}
	if recipient.Balance+trx.Amount < recipient.Balance {
		return errors.Wrapf(ErrBalanceOverflow, "wallet %s", recipient.Address)
	}
	recipient.Balance += trx.Amount
	if recipient == sender {
		return l.write(sender)
	}
	return l.write(sender, recipient)
}

// Revert undoes Apply of trx. trx must be the last applied transaction of its sender.
func (l *WalletLedger) Revert(trx *prototype.Transaction) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	sender, recipient, err := l.sides(trx)
	if err != nil {
		return err
	}
	if sender.Nonce != trx.Nonce+1 || !sender.KeyMatches(trx.SenderPublicKey) {
		return errors.Wrapf(ErrNotRevertible, "trx %s, wallet nonce %d", trx.Id, sender.Nonce)
	}
	if recipient.Balance < trx.Amount {
		return errors.Wrapf(ErrInsufficientBalance, "recipient %s balance %d < %d", recipient.Address, recipient.Balance, trx.Amount)
	}
	recipient.Balance -= trx.Amount
	sender.Balance += trx.Cost()
	sender.Nonce--
	if sender.Nonce == 0 {
		sender.PublicKey = nil
	}
	if recipient == sender {
		return l.write(sender)
	}
	return l.write(sender, recipient)
}

// Credit adds amount to the wallet of address.
func (l *WalletLedger) Credit(address string, amount uint64) error {
	if err := prototype.ValidateAddress(address); err != nil {
		return err
	}
	l.lock.Lock()
	defer l.lock.Unlock()

	w, err := l.load(address)
	if err != nil {
		return err
	}
	if w.Balance+amount < w.Balance {
		return errors.Wrapf(ErrBalanceOverflow, "wallet %s", address)
	}
	w.Balance += amount
	l.log.Debugf("LEDGER: credit %s %d, balance %d", address, amount, w.Balance)
	return l.write(w)
}

// Wallets returns all wallets with a record, ordered by address.
func (l *WalletLedger) Wallets() (wallets []*prototype.Wallet, err error) {
	l.wallets.Iterate(nil, nil, false, func(key, value []byte) bool {
		var w *prototype.Wallet
		if w, err = prototype.DecodeWallet(value); err != nil {
			return false
		}
		wallets = append(wallets, w)
		return true
	})
	return
}

// Snapshot creates a ledger working on a session of the database.
// Changes made through the snapshot are invisible to l until committed.
// The snapshot holds the mutation lock of l until Commit or Discard, so mutations of l and other
// snapshots wait for it instead of being overwritten by its commit.
func (l *WalletLedger) Snapshot() *LedgerSnapshot {
	l.lock.Lock()
	session := storage.NewDbSession(l.root)
	return &LedgerSnapshot{
		WalletLedger: NewWalletLedger(session, l.log),
		base:         l,
		session:      session,
	}
}

// LedgerSnapshot is a WalletLedger whose changes can be committed to or discarded from its base.
// It must not be used after Commit or Discard.
type LedgerSnapshot struct {
	*WalletLedger
	base    *WalletLedger
	session *storage.DbSession
	closed  bool
}

// Commit writes all changes to the base database and releases the base ledger.
func (s *LedgerSnapshot) Commit() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return ErrSnapshotClosed
	}
	s.closed = true
	defer s.base.lock.Unlock()
	return s.session.Commit()
}

// Discard drops all changes and releases the base ledger.
func (s *LedgerSnapshot) Discard() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.session.Discard()
	s.base.lock.Unlock()
}

// Dirty tells if there are uncommitted changes.
func (s *LedgerSnapshot) Dirty() bool {
	return s.session.Dirty()
}
