package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/entry"
)

type failingKV struct {
	*MemoryKV
	failWrites bool
}

func (f *failingKV) Write(key string, val []byte) error {
	if f.failWrites {
		return errors.New("quota exceeded")
	}
	return f.MemoryKV.Write(key, val)
}

func quietLogf(t *testing.T) (Logf, *[]string) {
	var lines []string
	return func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}, &lines
}

func sample(company, report string) entry.Entry {
	return entry.Entry{
		Company: company,
		Report:  report,
		SavedAt: entry.Timestamp{Time: time.Date(2024, time.February, 5, 10, 0, 0, 0, time.UTC)},
	}
}

func TestUpsertRoundTrip(t *testing.T) {
	cases := []entry.Entry{
		sample("Acme", "Did X"),
		sample("", ""),
		sample("Multi\nLine Co", "line one\nline two\n\n• bullet"),
		sample("Ünïcødé", "emoji 🚀 and \"quotes\""),
	}
	for i, want := range cases {
		kv := NewMemoryKV()
		logf, _ := quietLogf(t)
		s := Open(kv, WithLogf(logf))
		key := datekey.MustEncode(2024, 1, i+1)
		if err := s.Upsert(key, want); err != nil {
			t.Fatalf("upsert: %v", err)
		}

		reopened := Open(kv, WithLogf(logf))
		got, ok := reopened.Get(key)
		if !ok {
			t.Fatalf("case %d: entry missing after reload", i)
		}
		if !got.Equal(want) {
			t.Fatalf("case %d: expected %+v, got %+v", i, want, got)
		}
	}
}

func TestUpsertOverwrites(t *testing.T) {
	s := Open(NewMemoryKV())
	key := datekey.MustEncode(2024, 1, 5)
	if err := s.Upsert(key, sample("Old", "old")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Upsert(key, sample("New", "new")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected one entry, got %d", s.Len())
	}
	if got, _ := s.Get(key); got.Company != "New" {
		t.Fatalf("expected overwrite, got %+v", got)
	}
}

func TestUpsertRejectsInvalidKey(t *testing.T) {
	s := Open(NewMemoryKV())
	if err := s.Upsert(datekey.Key("2024-02-30"), sample("a", "b")); !errors.Is(err, datekey.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("invalid key must not be stored")
	}
}

func TestRemoveMissingKeyIsNoop(t *testing.T) {
	kv := NewMemoryKV()
	s := Open(kv)
	key := datekey.MustEncode(2024, 1, 5)
	if err := s.Upsert(key, sample("Acme", "Did X")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	before := s.Reports()

	if err := s.Remove(datekey.MustEncode(2024, 2, 1)); err != nil {
		t.Fatalf("remove missing key: %v", err)
	}
	after := s.Reports()
	if len(before) != len(after) {
		t.Fatalf("store changed: %v -> %v", before, after)
	}
	if _, err := kv.Read(StorageKey); err != nil {
		t.Fatalf("expected mapping to be persisted: %v", err)
	}
}

func TestRemovePersists(t *testing.T) {
	kv := NewMemoryKV()
	s := Open(kv)
	key := datekey.MustEncode(2024, 1, 5)
	_ = s.Upsert(key, sample("Acme", "Did X"))
	if err := s.Remove(key); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if Open(kv).Has(key) {
		t.Fatalf("entry should be gone after reload")
	}
}

func TestLoadCorruptIsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	_ = kv.Write(StorageKey, []byte("{not json"))
	logf, lines := quietLogf(t)
	s := Open(kv, WithLogf(logf))
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d entries", s.Len())
	}
	if len(*lines) == 0 {
		t.Fatalf("expected corrupt data to be logged")
	}
}

func TestLoadDropsInvalidKeys(t *testing.T) {
	kv := NewMemoryKV()
	raw := `{
		"2024-02-05": {"company":"Acme","report":"Did X","savedAt":"2024-02-05T10:00:00.000Z"},
		"2024-02-30": {"company":"Bad","report":"no such day","savedAt":"2024-02-05T10:00:00.000Z"},
		"yesterday": {"company":"Bad","report":"","savedAt":""},
		"2024-02-06": "not an object"
	}`
	_ = kv.Write(StorageKey, []byte(raw))
	logf, lines := quietLogf(t)
	s := Open(kv, WithLogf(logf))
	if s.Len() != 1 {
		t.Fatalf("expected one valid entry, got %v", s.Reports())
	}
	if !s.Has("2024-02-05") {
		t.Fatalf("valid entry dropped")
	}
	if len(*lines) != 3 {
		t.Fatalf("expected three dropped entries logged, got %v", *lines)
	}
}

func TestWriteFailureKeepsMemory(t *testing.T) {
	kv := &failingKV{MemoryKV: NewMemoryKV(), failWrites: true}
	s := Open(kv)
	key := datekey.MustEncode(2024, 1, 5)
	err := s.Upsert(key, sample("Acme", "Did X"))
	if !IsPersistenceError(err) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !s.Has(key) {
		t.Fatalf("in-memory state should stay authoritative")
	}

	kv.failWrites = false
	if err := s.Upsert(key, sample("Acme", "Did X")); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if !Open(kv).Has(key) {
		t.Fatalf("retry should persist")
	}
}

func TestListSorted(t *testing.T) {
	s := Open(NewMemoryKV())
	for _, k := range []datekey.Key{"2024-03-01", "2023-12-31", "2024-02-05"} {
		_ = s.Upsert(k, sample(string(k), ""))
	}
	asc := s.List(Ascending)
	desc := s.List(Descending)
	wantAsc := []datekey.Key{"2023-12-31", "2024-02-05", "2024-03-01"}
	for i, k := range wantAsc {
		if asc[i].Key != k {
			t.Fatalf("ascending[%d] = %s, want %s", i, asc[i].Key, k)
		}
		if desc[len(desc)-1-i].Key != k {
			t.Fatalf("descending mismatch at %d", i)
		}
	}
}

func TestDiskKVRoundTrip(t *testing.T) {
	kv, err := NewDiskKV(t.TempDir())
	if err != nil {
		t.Fatalf("open disk kv: %v", err)
	}
	if _, err := kv.Read(StorageKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	s := Open(kv)
	key := datekey.MustEncode(2024, 1, 5)
	if err := s.Upsert(key, sample("Acme", "Did X")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got, ok := Open(kv).Get(key); !ok || got.Company != "Acme" {
		t.Fatalf("unexpected reload: %+v %v", got, ok)
	}
	if err := kv.Erase(StorageKey); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if err := kv.Erase(StorageKey); err != nil {
		t.Fatalf("erase of missing key: %v", err)
	}
}

func TestReloadPicksUpOtherWriter(t *testing.T) {
	kv := NewMemoryKV()
	logf, _ := quietLogf(t)
	mine := Open(kv, WithLogf(logf))
	other := Open(kv, WithLogf(logf))

	if err := other.Upsert("2024-02-05", sample("Acme", "Did X")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if mine.Has("2024-02-05") {
		t.Fatalf("store should not see the write before reloading")
	}
	mine.Reload()
	if got, ok := mine.Get("2024-02-05"); !ok || got.Company != "Acme" {
		t.Fatalf("reload missed the entry: %+v %v", got, ok)
	}
}
