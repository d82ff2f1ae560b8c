package storage

//
// This file opens the database backing a node.
//
// A memory backend keeps everything in process and loses it on exit, which suits tests and dry runs.
// A leveldb backend persists to the given path.
//

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
)

// OpenDatabase opens or creates a database of the given backend.
func OpenDatabase(backend, path string) (Database, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryDatabase(), nil
	case BackendLevelDB:
		if len(path) == 0 {
			return nil, fmt.Errorf("leveldb backend needs a path")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, err
		}
		db, err := NewLevelDatabase(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open or create leveldb at %s: %v", path, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database backend %q", backend)
	}
}
