package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/tidewater/internal/trace"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a vessel event record with minimal fields.
func createTestRecord(seq int64, time float64, kind string) trace.Record {
	return trace.Record{
		Seq:      seq,
		Time:     time,
		Kind:     kind,
		Vessel:   "terror",
		Location: "A",
	}
}
