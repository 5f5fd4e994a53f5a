// Package storage handles the durable snapshot encoding of the full ledger
// state: the block chain and the public wallet registry.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minichain/minichain/foundation/ledger/database"
)

// Set of error variables for load failures. In either case the caller's
// in-memory state must be left unchanged.
var (
	ErrCorruptFile    = errors.New("snapshot cannot be parsed")
	ErrSchemaMismatch = errors.New("snapshot does not match the expected schema")
)

// WalletRecord holds the public material persisted for a wallet. Private
// keys are never written to disk; they exist only in memory and in the
// user's hands.
type WalletRecord struct {
	Name string `json:"name"`
}

// Snapshot is the document written to disk, with its two top level sections.
type Snapshot struct {
	Wallets map[string]WalletRecord `json:"wallets"`
	Chain   []database.Block        `json:"chain"`
}

// Save serializes the snapshot and writes it atomically: the document is
// written to a temp file in the destination directory first and renamed over
// the destination, so a failed write never leaves a partial snapshot behind.
func Save(path string, snapshot Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("rename snapshot: %w", err)
	}

	return nil
}

// Load reads and parses a snapshot from disk. Proof of work and hash linkage
// are deliberately not validated here; callers run chain validation after
// loading when integrity assurance is required.
func Load(path string) (Snapshot, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrCorruptFile, err)
	}

	walletsRaw, exists := raw["wallets"]
	if !exists {
		return Snapshot{}, fmt.Errorf("%w: missing wallets section", ErrSchemaMismatch)
	}

	chainRaw, exists := raw["chain"]
	if !exists {
		return Snapshot{}, fmt.Errorf("%w: missing chain section", ErrSchemaMismatch)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(walletsRaw, &snapshot.Wallets); err != nil {
		return Snapshot{}, fmt.Errorf("%w: wallets section: %s", ErrSchemaMismatch, err)
	}
	if err := json.Unmarshal(chainRaw, &snapshot.Chain); err != nil {
		return Snapshot{}, fmt.Errorf("%w: chain section: %s", ErrSchemaMismatch, err)
	}

	return snapshot, nil
}
