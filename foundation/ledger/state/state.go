// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/minichain/minichain/foundation/ledger/database"
	"github.com/minichain/minichain/foundation/ledger/genesis"
	"github.com/minichain/minichain/foundation/ledger/mempool"
	"github.com/minichain/minichain/foundation/ledger/wallet"
)

// EventHandler defines a function that is called when events occur in the
// processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis   genesis.Genesis
	Registry  *wallet.Registry
	EvHandler EventHandler
}

// State manages the chain of blocks and the pending pool. A single mutex
// guards both, so a mining operation drains a consistent snapshot of the
// pool and block appends are strictly sequential.
type State struct {
	mu        sync.Mutex
	genesis   genesis.Genesis
	registry  *wallet.Registry
	mempool   *mempool.Mempool
	blocks    []database.Block
	evHandler EventHandler
}

// New constructs a ledger seeded with the fixed genesis block.
func New(cfg Config) *State {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	registry := cfg.Registry
	if registry == nil {
		registry = wallet.NewRegistry()
	}

	s := State{
		genesis:   cfg.Genesis,
		registry:  registry,
		mempool:   mempool.New(),
		blocks:    []database.Block{database.NewGenesisBlock()},
		evHandler: ev,
	}

	return &s
}

// Genesis returns the chain settings.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// Registry returns the wallet registry owned by the application layer.
func (s *State) Registry() *wallet.Registry {
	return s.registry
}

// LatestBlock returns a copy of the current latest block.
func (s *State) LatestBlock() database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.blocks[len(s.blocks)-1]
}

// Blocks returns a read-only copy of the chain for display.
func (s *State) Blocks() []database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocks := make([]database.Block, len(s.blocks))
	copy(blocks, s.blocks)

	return blocks
}

// Mempool returns a copy of the pending pool in submission order.
func (s *State) Mempool() []database.SignedTx {
	return s.mempool.PickAll()
}
