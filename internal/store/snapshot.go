package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CookiePawn/lawtracker/internal/model"
)

// Snapshot is the in-memory form of the bill snapshot file: every bill
// known so far, in insertion order, with no duplicate identifiers.
type Snapshot struct {
	bills []model.BillDetail
	ids   map[string]struct{}
}

// NewSnapshot builds a snapshot from an existing record collection.
// Records repeating an earlier identifier are dropped.
func NewSnapshot(bills []model.BillDetail) *Snapshot {
	s := &Snapshot{
		bills: make([]model.BillDetail, 0, len(bills)),
		ids:   make(map[string]struct{}, len(bills)),
	}
	s.Append(bills...)
	return s
}

// Contains reports whether the identifier is already in the snapshot.
func (s *Snapshot) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// MergeNew returns the subset of the batch whose identifiers are not yet
// in the snapshot, collapsing duplicates inside the batch itself (first
// occurrence wins). It does not mutate the snapshot, so merging the same
// batch again after Append yields nothing.
func (s *Snapshot) MergeNew(batch []model.BillSummary) []model.BillSummary {
	seen := make(map[string]struct{}, len(batch))
	var fresh []model.BillSummary
	for _, b := range batch {
		if s.Contains(b.BillID) {
			continue
		}
		if _, dup := seen[b.BillID]; dup {
			continue
		}
		seen[b.BillID] = struct{}{}
		fresh = append(fresh, b)
	}
	return fresh
}

// Append adds records to the end of the snapshot, skipping identifiers
// already present.
func (s *Snapshot) Append(bills ...model.BillDetail) {
	for _, b := range bills {
		if s.Contains(b.BillID) {
			continue
		}
		s.ids[b.BillID] = struct{}{}
		s.bills = append(s.bills, b)
	}
}

// Bills returns the records in insertion order.
func (s *Snapshot) Bills() []model.BillDetail {
	return s.bills
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	return len(s.bills)
}

// SnapshotStore reads and writes the snapshot file.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a store for the given file path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Path returns the snapshot file location.
func (st *SnapshotStore) Path() string {
	return st.path
}

// Load reads the snapshot file. A missing file is a first run and yields
// an empty snapshot; a file that exists but fails to parse is an error.
func (st *SnapshotStore) Load() (*Snapshot, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSnapshot(nil), nil
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", st.path, err)
	}

	var bills []model.BillDetail
	if err := json.Unmarshal(data, &bills); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", st.path, err)
	}

	return NewSnapshot(bills), nil
}

// Write serializes the complete snapshot to the file, replacing prior
// content. Callers pass the full merged collection, never a delta.
func (st *SnapshotStore) Write(s *Snapshot) error {
	data, err := json.MarshalIndent(s.Bills(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(st.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	if err := os.WriteFile(st.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", st.path, err)
	}
	return nil
}
