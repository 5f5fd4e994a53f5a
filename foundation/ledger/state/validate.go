package state

import "github.com/minichain/minichain/foundation/ledger/database"

// ValidateChain checks, for every block after genesis, the hash linkage to
// its parent, the declared hash against a fresh recomputation of the block
// fields, and the proof of work. The genesis block is checked against its
// fixed, well known header. The first failing block short-circuits the walk
// and is reported with the violated condition.
func (s *State) ValidateChain() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: ValidateChain: blocks[%d]", len(s.blocks))

	if err := s.blocks[0].ValidateGenesisBlock(); err != nil {
		return &database.ChainIntegrityError{Number: 0, Reason: err.Error()}
	}

	for i := 1; i < len(s.blocks); i++ {
		if err := s.blocks[i].ValidateBlock(s.blocks[i-1], s.genesis.Difficulty, s.evHandler); err != nil {
			return &database.ChainIntegrityError{Number: uint64(i), Reason: err.Error()}
		}
	}

	return nil
}
