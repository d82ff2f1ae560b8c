package storage

import "sort"

// defines a database writing operation (put or delete)
type writeOp struct {
	Key, Value []byte
	Del        bool
}

// sortedKeys returns keys of m inside [start, limit), sorted.
func sortedKeys(m map[string][]byte, start, limit []byte, reverse bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if start != nil && k < string(start) {
			continue
		}
		if limit != nil && k >= string(limit) {
			continue
		}
		keys = append(keys, k)
	}
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	} else {
		sort.Strings(keys)
	}
	return keys
}
