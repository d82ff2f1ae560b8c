package storage

//
// This file implements Database interface based on levelDB.
//
// The pool keeps small records (wallets, stamina, pending transactions) and reads them by key far
// more often than it scans, so tables carry bloom filters and a modest block cache.
// A database found corrupted on open is recovered from its journal.
//

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	sLevelBloomBits      = 10
	sLevelBlockCacheSize = 16 * opt.MiB
	sLevelOpenFiles      = 256
)

type LevelDatabase struct {
	file      string
	db        *leveldb.DB
	closeOnce sync.Once
}

func levelOptions() *opt.Options {
	return &opt.Options{
		Filter:                 filter.NewBloomFilter(sLevelBloomBits),
		BlockCacheCapacity:     sLevelBlockCacheSize,
		OpenFilesCacheCapacity: sLevelOpenFiles,
	}
}

// NewLevelDatabase opens the database at file, creating it if missing.
func NewLevelDatabase(file string) (*LevelDatabase, error) {
	db, err := leveldb.OpenFile(file, levelOptions())
	if errors.IsCorrupted(err) {
		db, err = leveldb.RecoverFile(file, levelOptions())
	}
	if err != nil {
		return nil, err
	}
	return &LevelDatabase{file: file, db: db}, nil
}

// levelError converts goleveldb errors to the ones of this package.
func levelError(err error) error {
	switch err {
	case leveldb.ErrNotFound:
		return ErrNotFound
	case leveldb.ErrClosed:
		return ErrClosed
	}
	return err
}

// Close releases the database files. Closing more than once is harmless.
func (db *LevelDatabase) Close() {
	db.closeOnce.Do(func() {
		_ = db.db.Close()
	})
}

func (db *LevelDatabase) FileName() string {
	return db.file
}

func (db *LevelDatabase) Has(key []byte) (bool, error) {
	found, err := db.db.Has(key, nil)
	return found, levelError(err)
}

func (db *LevelDatabase) Get(key []byte) ([]byte, error) {
	data, err := db.db.Get(key, nil)
	if err != nil {
		return nil, levelError(err)
	}
	return data, nil
}

func (db *LevelDatabase) Put(key []byte, value []byte) error {
	return levelError(db.db.Put(key, value, nil))
}

func (db *LevelDatabase) Delete(key []byte) error {
	return levelError(db.db.Delete(key, nil))
}

// Iterate scans [start, limit). Keys and values handed to callback are copies, since goleveldb reuses
// iterator buffers.
func (db *LevelDatabase) Iterate(start, limit []byte, reverse bool, callback func(key, value []byte) bool) {
	it := db.db.NewIterator(&util.Range{Start: start, Limit: limit}, nil)
	defer it.Release()

	first, next := it.First, it.Next
	if reverse {
		first, next = it.Last, it.Prev
	}
	for ok := first(); ok; ok = next() {
		if callback == nil {
			continue
		}
		if !callback(append([]byte(nil), it.Key()...), append([]byte(nil), it.Value()...)) {
			return
		}
	}
}

func (db *LevelDatabase) NewBatch() Batch {
	return &LevelDatabaseBatch{db: db.db, b: new(leveldb.Batch)}
}

// DeleteBatch drops operations left in b.
func (db *LevelDatabase) DeleteBatch(b Batch) {
	if lb, ok := b.(*LevelDatabaseBatch); ok {
		lb.b.Reset()
	}
}

// LevelDatabaseBatch packs writes into a leveldb.Batch, written atomically.
type LevelDatabaseBatch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *LevelDatabaseBatch) Write() error {
	return levelError(b.db.Write(b.b, nil))
}

func (b *LevelDatabaseBatch) Reset() {
	b.b.Reset()
}

func (b *LevelDatabaseBatch) Put(key []byte, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *LevelDatabaseBatch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}
