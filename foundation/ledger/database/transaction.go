package database

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/minichain/minichain/foundation/ledger/signature"
)

// Tx is the transactional information between two parties. These four fields
// form the canonical payload that is signed, so a transaction is immutable
// once a signature exists for it.
type Tx struct {
	SenderID   AccountID `json:"sender"`
	ReceiverID AccountID `json:"receiver"`
	Amount     uint64    `json:"amount"`
	TimeStamp  uint64    `json:"timestamp"`
}

// NewTx constructs an unsigned transaction stamped with the current time.
func NewTx(senderID AccountID, receiverID AccountID, amount uint64) (Tx, error) {
	if amount == 0 {
		return Tx{}, ErrInvalidAmount
	}

	if !receiverID.IsAccountID() {
		return Tx{}, ErrUnknownReceiver
	}

	tx := Tx{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
		TimeStamp:  uint64(time.Now().UTC().Unix()),
	}

	return tx, nil
}

// Sign uses the specified private key to sign the transaction.
func (tx Tx) Sign(privateKey *ecdsa.PrivateKey) (SignedTx, error) {
	sig, err := signature.Sign(tx, privateKey)
	if err != nil {
		return SignedTx{}, err
	}

	signedTx := SignedTx{
		Tx:        tx,
		Signature: sig,
	}

	return signedTx, nil
}

// =============================================================================

// RewardSignature marks mining reward transactions, which carry no real
// signature and are exempt from verification.
const RewardSignature = "mining_reward"

// SignedTx is a signed version of the transaction. This is how transactions
// are submitted for inclusion and recorded inside blocks.
type SignedTx struct {
	Tx
	Signature string `json:"signature"`
}

// NewRewardTx constructs the synthetic transaction that credits the miner
// from the sentinel sender.
func NewRewardTx(receiverID AccountID, amount uint64) SignedTx {
	return SignedTx{
		Tx: Tx{
			SenderID:   RewardAccountID,
			ReceiverID: receiverID,
			Amount:     amount,
			TimeStamp:  uint64(time.Now().UTC().Unix()),
		},
		Signature: RewardSignature,
	}
}

// IsReward reports whether this transaction comes from the sentinel sender.
func (tx SignedTx) IsReward() bool {
	return tx.SenderID == RewardAccountID
}

// Validate verifies the signature against the canonical payload using the
// sender's public key. Reward transactions pass unconditionally.
func (tx SignedTx) Validate() error {
	if tx.IsReward() {
		return nil
	}

	if !signature.Verify(string(tx.SenderID), tx.Tx, tx.Signature) {
		return ErrInvalidSignature
	}

	return nil
}

// Hash returns the hash for this transaction, used as its leaf in the
// transactions root.
func (tx SignedTx) Hash() []byte {
	hash, err := hexutil.Decode(signature.Hash(tx))
	if err != nil {
		return nil
	}

	return hash
}

// String implements the fmt.Stringer interface for event logging.
func (tx SignedTx) String() string {
	return fmt.Sprintf("%.10s->%.10s:%d", tx.SenderID, tx.ReceiverID, tx.Amount)
}
