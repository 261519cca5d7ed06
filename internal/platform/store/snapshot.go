// Package store persists the registry state as a JSON snapshot on disk.
// The snapshot is a best-effort copy, not a durable database: writes go to a
// temp file first and replace the real file with a rename so a crashed write
// never corrupts the previous snapshot.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sinembank-ledger/internal/domain/ledger"
)

// Meta records how and when a snapshot was written
type Meta struct {
	Format    string    `json:"format"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// CustomerRecord is the serialized form of a customer
type CustomerRecord struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	TaxID      string  `json:"tax_id,omitempty"`
	AccountIDs []int64 `json:"account_ids,omitempty"`
}

// AccountRecord is the serialized form of an account. Only id, owner and
// balance are required: records written by the legacy minimal format decode
// with the remaining fields empty and the registry fills in defaults.
type AccountRecord struct {
	ID             int64                `json:"id"`
	Owner          string               `json:"owner"`
	OwnerID        int64                `json:"owner_id,omitempty"`
	Kind           string               `json:"kind,omitempty"`
	Currency       string               `json:"currency,omitempty"`
	Balance        decimal.Decimal      `json:"balance"`
	InterestRate   decimal.Decimal      `json:"interest_rate,omitempty"`
	OverdraftLimit decimal.Decimal      `json:"overdraft_limit,omitempty"`
	History        []ledger.Transaction `json:"history,omitempty"`
}

// Snapshot is the full persisted registry state
type Snapshot struct {
	Meta           Meta             `json:"_meta"`
	NextAccountID  int64            `json:"next_account_id"`
	NextCustomerID int64            `json:"next_customer_id"`
	Customers      []CustomerRecord `json:"customers,omitempty"`
	Accounts       []AccountRecord  `json:"accounts"`
}

const snapshotVersion = 2

// SnapshotStore reads and writes registry snapshots at a fixed path
type SnapshotStore struct {
	logger *slog.Logger
	path   string
}

// NewSnapshotStore creates a store for the given file path
func NewSnapshotStore(logger *slog.Logger, path string) *SnapshotStore {
	return &SnapshotStore{logger: logger, path: path}
}

// Path returns the snapshot file path
func (s *SnapshotStore) Path() string {
	return s.path
}

// Load reads the snapshot from disk. A missing file is a cold start and
// returns an empty snapshot with no error; a malformed file returns an error
// the caller may degrade on.
func (s *SnapshotStore) Load() (Snapshot, error) {
	var snap Snapshot

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("no snapshot file, starting cold", "path", s.path)
			return snap, nil
		}
		return snap, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot %s: %w", s.path, err)
	}
	return snap, nil
}

// Save writes the snapshot atomically: encode to path+".tmp", then rename
// over the real file. A write failure is returned to the caller, never
// swallowed.
func (s *SnapshotStore) Save(snap Snapshot) error {
	snap.Meta = Meta{
		Format:    "json_snapshot",
		Version:   snapshotVersion,
		Timestamp: time.Now(),
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create snapshot temp file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	s.logger.Debug("snapshot written", "path", s.path, "accounts", len(snap.Accounts))
	return nil
}
