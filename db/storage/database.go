package storage

import "errors"

var (
	// ErrNotFound is returned by Get for missing keys.
	ErrNotFound = errors.New("not found")
	// ErrClosed is returned by operations on a closed persistent database.
	ErrClosed = errors.New("database closed")
)

// interface for insertion and updating
type DatabasePutter interface {
	// insert a new key-value pair, or update the value if the given key already exists
	Put(key []byte, value []byte) error
}

// interface for deletion
type DatabaseDeleter interface {
	// delete the given key and its value
	Delete(key []byte) error
}

// interface for writing
type DatabaseWriter interface {
	DatabasePutter
	DatabaseDeleter
}

// interface for key & value query
type DatabaseGetter interface {
	// check existence of the given key
	Has(key []byte) (bool, error)

	// query the value of the given key, ErrNotFound if the key doesn't exist
	Get(key []byte) ([]byte, error)
}

// interface for key-space range scan
type DatabaseScanner interface {
	// iterate keys in range [start, limit) in ascending order, or descending order if reverse is true.
	// a nil start is the logical minimal key that is lesser than any existing keys
	// a nil limit is the logical maximum key that is greater than any existing keys
	// iteration stops when callback returns false.
	Iterate(start, limit []byte, reverse bool, callback func(key, value []byte) bool)
}

// interface for transactional execution of multiple writes
type DatabaseBatcher interface {
	// create a batch which can pack DatabasePutter & DatabaseDeleter operations and execute them atomically
	NewBatch() Batch

	// release a Batch
	DeleteBatch(b Batch)
}

// interface for transaction executor
type Batch interface {
	DatabaseWriter

	// execute all batched operations
	Write() error

	// reset the batch to empty
	Reset()
}

// interface for full functional database
type Database interface {
	DatabaseGetter
	DatabaseWriter
	DatabaseScanner
	DatabaseBatcher
	Close()
}
