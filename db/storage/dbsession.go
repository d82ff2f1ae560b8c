package storage

import (
	"hash/crc32"
	"sync"

	"github.com/coschain/trxguard/common"
)

// DbSession buffers writes on top of a base database.
// Reads see the buffered changes first, then the base. Nothing reaches the base until Commit().
type DbSession struct {
	sync.RWMutex
	base Database
	puts *MemoryDatabase
	dels *MemoryDatabase
}

var (
	sDataHashFunc  = crc32.ChecksumIEEE
	sDeletedValue  = []byte("<deleted>")
	sHashOfDeleted = sDataHashFunc(sDeletedValue)
)

func NewDbSession(base Database) *DbSession {
	return &DbSession{
		base: base,
		puts: NewMemoryDatabase(),
		dels: NewMemoryDatabase(),
	}
}

func (db *DbSession) Close() {

}

func (db *DbSession) commitToDbWriter(w DatabaseWriter) (err error) {
	db.puts.Iterate(nil, nil, false, func(key, value []byte) bool {
		err = w.Put(key, value)
		return err == nil
	})
	if err == nil {
		db.dels.Iterate(nil, nil, false, func(key, value []byte) bool {
			err = w.Delete(key)
			return err == nil
		})
	}
	return err
}

// Commit writes all changes to the base database atomically, and empties the session.
func (db *DbSession) Commit() (err error) {
	db.Lock()
	defer db.Unlock()

	b := db.base.NewBatch()
	defer db.base.DeleteBatch(b)
	if err = db.commitToDbWriter(b); err != nil {
		return err
	}
	if err = b.Write(); err != nil {
		return err
	}
	db.puts, db.dels = NewMemoryDatabase(), NewMemoryDatabase()
	return nil
}

// Discard drops all changes.
func (db *DbSession) Discard() {
	db.Lock()
	defer db.Unlock()
	db.puts, db.dels = NewMemoryDatabase(), NewMemoryDatabase()
}

// Dirty tells if there're uncommitted changes.
func (db *DbSession) Dirty() bool {
	db.RLock()
	defer db.RUnlock()
	return db.puts.Len() > 0 || db.dels.Len() > 0
}

func (db *DbSession) Has(key []byte) (bool, error) {
	db.RLock()
	defer db.RUnlock()

	found, err := db.puts.Has(key)
	if !found {
		if found, _ = db.dels.Has(key); found {
			return false, nil
		}
		found, err = db.base.Has(key)
	}
	return found, err
}

func (db *DbSession) Get(key []byte) ([]byte, error) {
	db.RLock()
	defer db.RUnlock()

	data, err := db.puts.Get(key)
	if err == ErrNotFound {
		if deleted, _ := db.dels.Has(key); deleted {
			return nil, ErrNotFound
		}
		// try underlying db
		data, err = db.base.Get(key)
	}
	return data, err
}

func (db *DbSession) put(key []byte, value []byte) error {
	err := db.puts.Put(key, value)
	if err == nil {
		_ = db.dels.Delete(key)
	}
	return err
}

func (db *DbSession) delete(key []byte) error {
	err := db.puts.Delete(key)
	if err == nil {
		_ = db.dels.Put(key, sDeletedValue)
	}
	return err
}

func (db *DbSession) Put(key []byte, value []byte) error {
	db.Lock()
	defer db.Unlock()
	return db.put(key, value)
}

func (db *DbSession) Delete(key []byte) error {
	db.Lock()
	defer db.Unlock()
	return db.delete(key)
}

// Iterate merges the session changes with the base database.
func (db *DbSession) Iterate(start, limit []byte, reverse bool, callback func(key, value []byte) bool) {
	db.RLock()
	merged := make(map[string][]byte)
	db.base.Iterate(start, limit, false, func(key, value []byte) bool {
		merged[string(key)] = value
		return true
	})
	db.puts.Iterate(start, limit, false, func(key, value []byte) bool {
		merged[string(key)] = value
		return true
	})
	db.dels.Iterate(start, limit, false, func(key, value []byte) bool {
		delete(merged, string(key))
		return true
	})
	db.RUnlock()

	if callback == nil {
		return
	}
	for _, k := range sortedKeys(merged, start, limit, reverse) {
		if !callback([]byte(k), merged[k]) {
			break
		}
	}
}

// Hash returns a checksum of uncommitted changes.
func (db *DbSession) Hash() (hash uint32) {
	db.RLock()
	defer db.RUnlock()

	db.puts.Iterate(nil, nil, false, func(key, value []byte) bool {
		hash += sDataHashFunc(key)
		hash += sDataHashFunc(value)
		return true
	})
	db.dels.Iterate(nil, nil, false, func(key, value []byte) bool {
		hash += sDataHashFunc(key)
		hash += sHashOfDeleted
		return true
	})
	return
}

func (db *DbSession) NewBatch() Batch {
	return &dbSessionBatch{db: db}
}

func (db *DbSession) DeleteBatch(b Batch) {

}

// the batch
type dbSessionBatch struct {
	db      *DbSession
	changes []writeOp
}

func (b *dbSessionBatch) Write() error {
	b.db.Lock()
	defer b.db.Unlock()
	for _, op := range b.changes {
		if op.Del {
			_ = b.db.delete(op.Key)
		} else {
			_ = b.db.put(op.Key, op.Value)
		}
	}
	return nil
}

func (b *dbSessionBatch) Reset() {
	b.changes = b.changes[:0]
}

func (b *dbSessionBatch) Put(key []byte, value []byte) error {
	b.changes = append(b.changes, writeOp{
		Key:   common.CopyBytes(key),
		Value: common.CopyBytes(value),
		Del:   false,
	})
	return nil
}

func (b *dbSessionBatch) Delete(key []byte) error {
	b.changes = append(b.changes, writeOp{
		Key:   common.CopyBytes(key),
		Value: nil,
		Del:   true,
	})
	return nil
}
