package state

import (
	"fmt"
	"sort"

	"github.com/minichain/minichain/foundation/ledger/database"
	"github.com/minichain/minichain/foundation/ledger/storage"
	"github.com/minichain/minichain/foundation/ledger/wallet"
)

// SaveState writes the chain and the public wallet registry to the specified
// path. If the write fails, the state in memory remains authoritative and
// unaffected.
func (s *State) SaveState(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: SaveState: path[%s]: blocks[%d]", path, len(s.blocks))

	snapshot := storage.Snapshot{
		Wallets: make(map[string]storage.WalletRecord),
		Chain:   make([]database.Block, len(s.blocks)),
	}
	copy(snapshot.Chain, s.blocks)

	for _, w := range s.registry.List() {
		snapshot.Wallets[string(w.AccountID)] = storage.WalletRecord{Name: w.Name}
	}

	if err := storage.Save(path, snapshot); err != nil {
		return fmt.Errorf("saving ledger snapshot: %w", err)
	}

	return nil
}

// LoadState replaces the chain and the wallet registry with the contents of
// the snapshot at the specified path. Wallets come back with public material
// only; their private keys are intentionally lost. Hash linkage and proof of
// work are not checked here. Call ValidateChain afterwards when integrity
// assurance is required. On failure the current state is left unchanged.
func (s *State) LoadState(path string) error {
	snapshot, err := storage.Load(path)
	if err != nil {
		return err
	}

	if len(snapshot.Chain) == 0 {
		return fmt.Errorf("%w: chain section is empty", storage.ErrSchemaMismatch)
	}

	// The snapshot stores wallets keyed by public key, so insertion order is
	// not recoverable. Rebuild the registry in lexical key order.
	accountIDs := make([]string, 0, len(snapshot.Wallets))
	for accountID := range snapshot.Wallets {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Strings(accountIDs)

	wallets := make([]wallet.Wallet, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		id, err := database.ToAccountID(accountID)
		if err != nil {
			return fmt.Errorf("%w: wallet key %q: %s", storage.ErrSchemaMismatch, accountID, err)
		}
		wallets = append(wallets, wallet.Wallet{
			Name:      snapshot.Wallets[accountID].Name,
			AccountID: id,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: LoadState: path[%s]: blocks[%d] wallets[%d]", path, len(snapshot.Chain), len(wallets))

	s.blocks = snapshot.Chain
	s.registry.Replace(wallets)
	s.mempool.Truncate()

	return nil
}
