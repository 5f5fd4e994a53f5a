package state

import "github.com/minichain/minichain/foundation/ledger/database"

// Balance derives the balance for the account by replaying every transaction
// in every block from genesis to tip. Unknown accounts yield zero. Balances
// are never cached, so any retroactive tamper stays detectable by replay
// plus chain validation.
func (s *State) Balance(accountID database.AccountID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.balances()[accountID]
}

// Balances derives the balances of every account seen on the chain.
func (s *State) Balances() map[database.AccountID]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.balances()
}

// balances replays the full chain. Callers must hold the mutex.
func (s *State) balances() map[database.AccountID]uint64 {
	balances := make(map[database.AccountID]uint64)

	for _, block := range s.blocks {
		for _, tx := range block.Trans {
			if !tx.IsReward() {
				if balances[tx.SenderID] < tx.Amount {

					// Only a tampered history can spend more than it holds.
					// Clamp at zero; validation reports the corruption.
					balances[tx.SenderID] = 0
				} else {
					balances[tx.SenderID] -= tx.Amount
				}
			}
			balances[tx.ReceiverID] += tx.Amount
		}
	}

	return balances
}
