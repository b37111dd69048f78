package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/entry"
)

// Reports maps a day to its saved entry.
type Reports map[datekey.Key]entry.Entry

// Order selects the direction of Sorted.
type Order int

const (
	Ascending Order = iota
	Descending
)

// Record is one key/entry pair of a sorted listing.
type Record struct {
	Key   datekey.Key
	Entry entry.Entry
}

// Get returns the entry for key.
func (r Reports) Get(key datekey.Key) (entry.Entry, bool) {
	e, ok := r[key]
	return e, ok
}

// Clone returns a shallow copy of r.
func (r Reports) Clone() Reports {
	next := make(Reports, len(r))
	for k, v := range r {
		next[k] = v
	}
	return next
}

// With returns a copy of r with key set to e.
func (r Reports) With(key datekey.Key, e entry.Entry) Reports {
	next := r.Clone()
	next[key] = e
	return next
}

// Without returns a copy of r with key absent.
func (r Reports) Without(key datekey.Key) Reports {
	next := r.Clone()
	delete(next, key)
	return next
}

// Sorted lists the entries by key, which is chronological.
func (r Reports) Sorted(order Order) []Record {
	out := make([]Record, 0, len(r))
	for k, v := range r {
		out = append(out, Record{Key: k, Entry: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if order == Descending {
			return out[i].Key > out[j].Key
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Filter keeps only key when it is non-nil.
func (r Reports) Filter(key *datekey.Key) Reports {
	if key == nil {
		return r
	}
	if e, ok := r[*key]; ok {
		return Reports{*key: e}
	}
	return Reports{}
}

// decodeReports parses a persisted mapping. Entries whose key is not a real
// day or whose value does not decode are dropped and reported in skipped.
func decodeReports(data []byte) (Reports, []error, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	out := make(Reports, len(raw))
	var skipped []error
	for k, v := range raw {
		key, err := datekey.Parse(k)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		var e entry.Entry
		if err := json.Unmarshal(v, &e); err != nil {
			skipped = append(skipped, fmt.Errorf("store: entry %s: %w", k, err))
			continue
		}
		out[key] = e
	}
	return out, skipped, nil
}

// PersistenceError reports a durable storage failure. Reads that fail leave
// the store empty; writes that fail leave the in-memory state authoritative.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError reports whether err carries a PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
