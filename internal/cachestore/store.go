// Package cachestore implements the file-backed cache: one file per logical
// cache key, named by the xxhash of the key so arbitrary key strings never
// touch the filesystem as literal paths. Each entry records its value, the
// time it was fetched, and the TTL it was written with, so readers can
// classify a read as fresh, stale, or miss without any separate index.
package cachestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
)

// State is the read-result classification for a cache lookup.
type State string

const (
	Fresh State = "fresh"
	Stale State = "stale"
	Miss  State = "miss"
)

// Entry is the on-disk representation of one cache row.
type Entry struct {
	Value      json.RawMessage `json:"value"`
	FetchedAt  int64           `json:"fetched_at"`
	TTLSeconds int             `json:"ttl_seconds"`
}

// Store is a directory-backed cache keyed by arbitrary strings.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir. The directory is created lazily on
// first write, not here.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) pathFor(key string) string {
	h := xxhash.Sum64String(key)
	name := filepath.Join(s.Dir, hex64(h)+".json")
	return name
}

const hexDigits = "0123456789abcdef"

func hex64(v uint64) string {
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	return string(buf)
}

// Put writes value (already JSON-marshaled by the caller) under key with
// the given TTL, recording the current time as fetched_at. Writes are
// last-writer-wins: a temp file is written then renamed into place so a
// concurrent reader never observes a half-written entry.
func (s *Store) Put(key string, value json.RawMessage, ttl time.Duration, now time.Time) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	entry := Entry{
		Value:      value,
		FetchedAt:  now.Unix(),
		TTLSeconds: int(ttl.Seconds()),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	path := s.pathFor(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Get reads the entry stored under key, classifying it fresh/stale/miss
// relative to now and the entry's recorded TTL.
func (s *Store) Get(key string, now time.Time) (Entry, State, error) {
	path := s.pathFor(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, Miss, nil
		}
		return Entry{}, Miss, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, Miss, err
	}
	age := now.Unix() - entry.FetchedAt
	if age < 0 {
		age = 0
	}
	if entry.TTLSeconds > 0 && age <= int64(entry.TTLSeconds) {
		return entry, Fresh, nil
	}
	return entry, Stale, nil
}

// Age returns how old an entry is relative to now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(time.Unix(e.FetchedAt, 0))
}
