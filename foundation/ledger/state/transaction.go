package state

import "github.com/minichain/minichain/foundation/ledger/database"

// SubmitTransaction verifies the signed transaction and enqueues it into the
// pending pool. Senders other than the reward sentinel must hold a chain
// derived balance covering the amount at submission time.
func (s *State) SubmitTransaction(signedTx database.SignedTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: SubmitTransaction: tx[%s]", signedTx)

	if signedTx.Amount == 0 {
		return database.ErrInvalidAmount
	}

	if !signedTx.ReceiverID.IsAccountID() {
		return database.ErrUnknownReceiver
	}

	if err := signedTx.Validate(); err != nil {
		return err
	}

	if !signedTx.IsReward() {
		if balance := s.balances()[signedTx.SenderID]; signedTx.Amount > balance {
			return database.ErrInsufficientBalance
		}
	}

	s.mempool.Append(signedTx)

	return nil
}
