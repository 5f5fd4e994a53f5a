package database

import (
	"context"
	"fmt"
	"time"

	"github.com/minichain/minichain/foundation/ledger/merkle"
	"github.com/minichain/minichain/foundation/ledger/signature"
)

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64 `json:"index"`         // Position of the block in the chain, 0 for genesis.
	PrevBlockHash string `json:"previous_hash"` // Hash of the previous block in the chain.
	TimeStamp     uint64 `json:"timestamp"`     // Time the block was mined.
	Nonce         uint64 `json:"nonce"`         // Value identified to solve the hash solution.
	TransRoot     string `json:"trans_root"`    // Order-sensitive merkle root of the block transactions.
}

// Block represents a group of transactions batched together. The Hash field
// is the declared hash as it was mined or loaded from disk; validation always
// recomputes it from the block fields.
type Block struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"header"`
	Trans  []SignedTx  `json:"transactions"`
}

// NewGenesisBlock constructs the fixed, well known first block of the chain.
// It carries no real transactions and its hash is the zero hash.
func NewGenesisBlock() Block {
	b := Block{
		Header: BlockHeader{
			Number:        0,
			PrevBlockHash: signature.ZeroHash,
			TimeStamp:     0,
			Nonce:         0,
			TransRoot:     TransRoot(nil),
		},
	}
	b.Hash = b.ComputeHash()

	return b
}

// TransRoot computes the order-sensitive root over the specified
// transactions. Reordering the transactions changes the root.
func TransRoot(trans []SignedTx) string {
	leaves := make([][]byte, len(trans))
	for i, tx := range trans {
		leaves[i] = tx.Hash()
	}

	return merkle.RootHex(leaves)
}

// =============================================================================

// POW constructs the next block for the chain and searches for a nonce whose
// header hash carries the required number of leading zero hex digits. The
// context is checked between attempts so mining can be cancelled; the first
// nonce meeting the target wins.
func POW(ctx context.Context, difficulty uint, prevBlock Block, trans []SignedTx, ev func(v string, args ...any)) (Block, error) {
	nb := Block{
		Header: BlockHeader{
			Number:        prevBlock.Header.Number + 1,
			PrevBlockHash: prevBlock.Hash,
			TimeStamp:     uint64(time.Now().UTC().Unix()),
			Nonce:         0,
			TransRoot:     TransRoot(trans),
		},
		Trans: trans,
	}

	if err := nb.performPOW(ctx, difficulty, ev); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for a specified
// block. Pointer semantics are being used since a nonce is being discovered.
func (b *Block) performPOW(ctx context.Context, difficulty uint, ev func(v string, args ...any)) error {
	ev("database: performPOW: MINING: blk[%d]: started", b.Header.Number)
	defer ev("database: performPOW: MINING: blk[%d]: completed", b.Header.Number)

	for _, tx := range b.Trans {
		ev("database: performPOW: MINING: tx[%s]", tx)
	}

	// Iterate the nonce from 0 upward until the puzzle is solved or the
	// caller cancels the search.
	var attempts uint64
	for {
		attempts++
		if attempts%100_000 == 0 {
			ev("database: performPOW: MINING: attempts[%d]", attempts)
		}

		if ctx.Err() != nil {
			ev("database: performPOW: MINING: CANCELLED")
			return ctx.Err()
		}

		hash := b.ComputeHash()
		if !IsHashSolved(difficulty, hash) {
			b.Header.Nonce++
			continue
		}

		ev("database: performPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.Header.PrevBlockHash, hash)
		ev("database: performPOW: MINING: attempts[%d]", attempts)
		b.Hash = hash

		return nil
	}
}

// ComputeHash returns a fresh hash for the block computed from its own
// fields. The genesis block hashes to the zero hash by definition.
func (b Block) ComputeHash() string {
	if b.Header.Number == 0 {
		return signature.ZeroHash
	}

	return signature.Hash(b.Header)
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading zero hex digits.
func IsHashSolved(difficulty uint, hash string) bool {
	const match = "00000000000000000"

	if len(hash) != 66 || hash[:2] != "0x" {
		return false
	}

	return hash[2:2+difficulty] == match[:difficulty]
}

// =============================================================================

// ValidateBlock validates a block for inclusion after the specified previous
// block. The first failing condition is reported as the reason.
func (b Block) ValidateBlock(prevBlock Block, difficulty uint, ev func(v string, args ...any)) error {
	ev("database: ValidateBlock: blk[%d]: check: declared hash matches recomputation", b.Header.Number)

	if b.Hash != b.ComputeHash() {
		return fmt.Errorf("block hash %s does not match a recomputation from the block fields", b.Hash)
	}

	ev("database: ValidateBlock: blk[%d]: check: transactions root matches transactions", b.Header.Number)

	if b.Header.TransRoot != TransRoot(b.Trans) {
		return fmt.Errorf("transactions root does not match the block transactions, got %s, exp %s", b.Header.TransRoot, TransRoot(b.Trans))
	}

	ev("database: ValidateBlock: blk[%d]: check: block hash has been solved", b.Header.Number)

	if !IsHashSolved(difficulty, b.Hash) {
		return fmt.Errorf("%s does not satisfy the proof of work difficulty %d", b.Hash, difficulty)
	}

	ev("database: ValidateBlock: blk[%d]: check: block number is the next number", b.Header.Number)

	if b.Header.Number != prevBlock.Header.Number+1 {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Header.Number, prevBlock.Header.Number+1)
	}

	ev("database: ValidateBlock: blk[%d]: check: previous hash matches parent block", b.Header.Number)

	if b.Header.PrevBlockHash != prevBlock.Hash {
		return fmt.Errorf("previous hash doesn't match our known parent, got %s, exp %s", b.Header.PrevBlockHash, prevBlock.Hash)
	}

	return nil
}

// ValidateGenesisBlock checks the first block of the chain against the fixed,
// well known genesis header.
func (b Block) ValidateGenesisBlock() error {
	if b.Header != NewGenesisBlock().Header || b.Hash != signature.ZeroHash || len(b.Trans) != 0 {
		return fmt.Errorf("genesis block does not match the well known header")
	}

	return nil
}
