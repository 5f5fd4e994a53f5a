package state

import (
	"context"

	"github.com/minichain/minichain/foundation/ledger/database"
)

// MineNextBlock drains the pending pool into one candidate block, adds the
// mining reward transaction for the beneficiary, performs the proof of work,
// appends the block to the chain, and clears the pool. An empty pool still
// produces a reward-only block. The context cancels the nonce search.
func (s *State) MineNextBlock(ctx context.Context, beneficiaryID database.AccountID) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !beneficiaryID.IsAccountID() {
		return database.Block{}, database.ErrUnknownReceiver
	}

	s.evHandler("state: MineNextBlock: MINING: drain pool: txs[%d]", s.mempool.Count())

	// Re-validate the drained transactions against a running balance view.
	// A transaction whose sender can no longer cover the amount because of
	// an earlier transaction in the same batch is dropped from the block.
	balances := s.balances()

	var trans []database.SignedTx
	for _, tx := range s.mempool.PickAll() {
		if !tx.IsReward() {
			if balances[tx.SenderID] < tx.Amount {
				s.evHandler("state: MineNextBlock: MINING: WARNING: dropping tx[%s]: spent out in batch", tx)
				continue
			}
			balances[tx.SenderID] -= tx.Amount
		}
		balances[tx.ReceiverID] += tx.Amount

		trans = append(trans, tx)
	}

	trans = append(trans, database.NewRewardTx(beneficiaryID, s.genesis.MiningReward))

	block, err := database.POW(ctx, s.genesis.Difficulty, s.blocks[len(s.blocks)-1], trans, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: MineNextBlock: MINING: append blk[%d]: hash[%s]", block.Header.Number, block.Hash)

	s.blocks = append(s.blocks, block)
	s.mempool.Truncate()

	return block, nil
}
