package cachestore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_MissWhenNeverWritten(t *testing.T) {
	s := New(t.TempDir())
	_, state, err := s.Get("nope", time.Now())
	require.NoError(t, err)
	assert.Equal(t, Miss, state)
}

func TestPutThenGet_FreshWithinTTL(t *testing.T) {
	s := New(t.TempDir())
	now := time.Unix(1_700_000_000, 0)
	require.NoError(t, s.Put("k", json.RawMessage(`{"a":1}`), 300*time.Second, now))

	entry, state, err := s.Get("k", now.Add(100*time.Second))
	require.NoError(t, err)
	assert.Equal(t, Fresh, state)
	assert.JSONEq(t, `{"a":1}`, string(entry.Value))
}

func TestGet_StaleAfterTTLElapsed(t *testing.T) {
	s := New(t.TempDir())
	now := time.Unix(1_700_000_000, 0)
	require.NoError(t, s.Put("k", json.RawMessage(`{"a":1}`), 300*time.Second, now))

	_, state, err := s.Get("k", now.Add(301*time.Second))
	require.NoError(t, err)
	assert.Equal(t, Stale, state)
}

func TestGet_ExactlyAtTTLBoundaryIsFresh(t *testing.T) {
	s := New(t.TempDir())
	now := time.Unix(1_700_000_000, 0)
	require.NoError(t, s.Put("k", json.RawMessage(`{}`), 300*time.Second, now))

	_, state, err := s.Get("k", now.Add(300*time.Second))
	require.NoError(t, err)
	assert.Equal(t, Fresh, state)
}

func TestGet_ZeroTTLIsAlwaysStale(t *testing.T) {
	s := New(t.TempDir())
	now := time.Unix(1_700_000_000, 0)
	require.NoError(t, s.Put("k", json.RawMessage(`{}`), 0, now))

	_, state, err := s.Get("k", now)
	require.NoError(t, err)
	assert.Equal(t, Stale, state)
}

func TestPut_OverwritesPreviousValue(t *testing.T) {
	s := New(t.TempDir())
	now := time.Unix(1_700_000_000, 0)
	require.NoError(t, s.Put("k", json.RawMessage(`{"a":1}`), 300*time.Second, now))
	require.NoError(t, s.Put("k", json.RawMessage(`{"a":2}`), 300*time.Second, now))

	entry, _, err := s.Get("k", now)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(entry.Value))
}

func TestEntry_AgeReflectsElapsedTime(t *testing.T) {
	e := Entry{FetchedAt: 1_700_000_000}
	got := e.Age(time.Unix(1_700_000_100, 0))
	assert.Equal(t, 100*time.Second, got)
}

func TestDifferentKeysDoNotCollide(t *testing.T) {
	s := New(t.TempDir())
	now := time.Unix(1_700_000_000, 0)
	require.NoError(t, s.Put("a", json.RawMessage(`1`), time.Minute, now))
	require.NoError(t, s.Put("b", json.RawMessage(`2`), time.Minute, now))

	ea, _, _ := s.Get("a", now)
	eb, _, _ := s.Get("b", now)
	assert.Equal(t, "1", string(ea.Value))
	assert.Equal(t, "2", string(eb.Value))
}
