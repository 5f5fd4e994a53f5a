package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/minichain/minichain/foundation/ledger/database"
	"github.com/minichain/minichain/foundation/ledger/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"

// Low difficulty keeps the nonce search fast in tests.
const testDifficulty = 1

func noop(v string, args ...any) {}

func signTx(t *testing.T, receiver database.AccountID, amount uint64) database.SignedTx {
	t.Helper()

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to parse a private key: %s", err)
	}

	tx, err := database.NewTx(database.PublicKeyToAccountID(pk.PublicKey), receiver, amount)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %s", err)
	}

	signedTx, err := tx.Sign(pk)
	if err != nil {
		t.Fatalf("Should be able to sign a transaction: %s", err)
	}

	return signedTx
}

func otherAccount(t *testing.T) database.AccountID {
	t.Helper()

	pk, err := signature.GenerateKey()
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	return database.PublicKeyToAccountID(pk.PublicKey)
}

// =============================================================================

func TestNewTx(t *testing.T) {
	receiver := otherAccount(t)
	sender := otherAccount(t)

	t.Log("Given the need to validate transaction construction.")
	{
		if _, err := database.NewTx(sender, receiver, 0); !errors.Is(err, database.ErrInvalidAmount) {
			t.Fatalf("\t%s\tShould reject a zero amount: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a zero amount.", success)

		if _, err := database.NewTx(sender, "0xBAD", 10); !errors.Is(err, database.ErrUnknownReceiver) {
			t.Fatalf("\t%s\tShould reject a malformed receiver: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a malformed receiver.", success)

		tx, err := database.NewTx(sender, receiver, 10)
		if err != nil {
			t.Fatalf("\t%s\tShould accept a well formed transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a well formed transaction.", success)

		if tx.TimeStamp == 0 {
			t.Fatalf("\t%s\tShould stamp the transaction with the current time.", failed)
		}
		t.Logf("\t%s\tShould stamp the transaction with the current time.", success)
	}
}

func TestTxValidate(t *testing.T) {
	receiver := otherAccount(t)

	t.Log("Given the need to validate transaction signatures.")
	{
		signedTx := signTx(t, receiver, 25)

		if err := signedTx.Validate(); err != nil {
			t.Fatalf("\t%s\tShould validate a properly signed transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould validate a properly signed transaction.", success)

		tampered := signedTx
		tampered.Amount = 1000
		if err := tampered.Validate(); !errors.Is(err, database.ErrInvalidSignature) {
			t.Fatalf("\t%s\tShould reject a tampered amount: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a tampered amount.", success)

		rerouted := signedTx
		rerouted.ReceiverID = otherAccount(t)
		if err := rerouted.Validate(); !errors.Is(err, database.ErrInvalidSignature) {
			t.Fatalf("\t%s\tShould reject a rerouted receiver: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a rerouted receiver.", success)

		forged := signedTx
		forged.SenderID = otherAccount(t)
		if err := forged.Validate(); !errors.Is(err, database.ErrInvalidSignature) {
			t.Fatalf("\t%s\tShould reject a forged sender: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a forged sender.", success)
	}
}

func TestRewardTx(t *testing.T) {
	receiver := otherAccount(t)

	t.Log("Given the need to validate mining reward transactions.")
	{
		rewardTx := database.NewRewardTx(receiver, 50)

		if !rewardTx.IsReward() {
			t.Fatalf("\t%s\tShould report a reward transaction as a reward.", failed)
		}
		t.Logf("\t%s\tShould report a reward transaction as a reward.", success)

		if rewardTx.Signature != database.RewardSignature {
			t.Fatalf("\t%s\tShould carry the reward marker in the signature field.", failed)
		}
		t.Logf("\t%s\tShould carry the reward marker in the signature field.", success)

		if err := rewardTx.Validate(); err != nil {
			t.Fatalf("\t%s\tShould validate without signature verification: %v", failed, err)
		}
		t.Logf("\t%s\tShould validate without signature verification.", success)

		userTx := signTx(t, receiver, 25)
		if userTx.IsReward() {
			t.Fatalf("\t%s\tShould not report a user transaction as a reward.", failed)
		}
		t.Logf("\t%s\tShould not report a user transaction as a reward.", success)
	}
}

func TestPOW(t *testing.T) {
	receiver := otherAccount(t)

	t.Log("Given the need to mine a block over a set of transactions.")
	{
		trans := []database.SignedTx{
			signTx(t, receiver, 10),
			database.NewRewardTx(receiver, 50),
		}

		genesisBlock := database.NewGenesisBlock()

		block, err := database.POW(context.Background(), testDifficulty, genesisBlock, trans, noop)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		if !database.IsHashSolved(testDifficulty, block.Hash) {
			t.Fatalf("\t%s\tShould produce a hash meeting the difficulty: %s", failed, block.Hash)
		}
		t.Logf("\t%s\tShould produce a hash meeting the difficulty.", success)

		if block.Hash != block.ComputeHash() {
			t.Fatalf("\t%s\tShould declare a hash matching a recomputation.", failed)
		}
		t.Logf("\t%s\tShould declare a hash matching a recomputation.", success)

		if err := block.ValidateBlock(genesisBlock, testDifficulty, noop); err != nil {
			t.Fatalf("\t%s\tShould pass block validation: %v", failed, err)
		}
		t.Logf("\t%s\tShould pass block validation.", success)
	}
}

func TestPOWCancel(t *testing.T) {
	receiver := otherAccount(t)

	t.Log("Given the need to cancel a mining operation.")
	{
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		trans := []database.SignedTx{database.NewRewardTx(receiver, 50)}

		// An unreachable difficulty forces the search to run until the
		// context expires.
		_, err := database.POW(ctx, 16, database.NewGenesisBlock(), trans, noop)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("\t%s\tShould report the context error: %v", failed, err)
		}
		t.Logf("\t%s\tShould report the context error.", success)
	}
}

func TestIsHashSolved(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
		hash       string
		solved     bool
	}

	tt := []table{
		{"solved", 4, "0x0000ab00000000000000000000000000000000000000000000000000000000aa", true},
		{"unsolved", 4, "0x000fab00000000000000000000000000000000000000000000000000000000aa", false},
		{"short", 4, "0x0000", false},
		{"no prefix", 4, "000000ab00000000000000000000000000000000000000000000000000000000", false},
		{"harder", 6, "0x0000ab00000000000000000000000000000000000000000000000000000000aa", false},
	}

	t.Log("Given the need to validate the proof of work target check.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking the %s hash.", testID, tst.name)
			{
				if got := database.IsHashSolved(tst.difficulty, tst.hash); got != tst.solved {
					t.Fatalf("\t%s\tTest %d:\tShould get %v for this hash.", failed, testID, tst.solved)
				}
				t.Logf("\t%s\tTest %d:\tShould get %v for this hash.", success, testID, tst.solved)
			}
		}
	}
}

func TestValidateBlockTamper(t *testing.T) {
	receiver := otherAccount(t)

	t.Log("Given the need to detect a tampered block.")
	{
		genesisBlock := database.NewGenesisBlock()
		trans := []database.SignedTx{
			signTx(t, receiver, 10),
			database.NewRewardTx(receiver, 50),
		}

		block, err := database.POW(context.Background(), testDifficulty, genesisBlock, trans, noop)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		tampered := block
		tampered.Header.Nonce++
		if err := tampered.ValidateBlock(genesisBlock, testDifficulty, noop); err == nil {
			t.Fatalf("\t%s\tShould reject a block with a tampered nonce.", failed)
		}
		t.Logf("\t%s\tShould reject a block with a tampered nonce.", success)

		unlinked := block
		unlinked.Header.PrevBlockHash = signature.ZeroHash[:10] + "ff" + signature.ZeroHash[12:]
		if err := unlinked.ValidateBlock(genesisBlock, testDifficulty, noop); err == nil {
			t.Fatalf("\t%s\tShould reject a block with a broken parent link.", failed)
		}
		t.Logf("\t%s\tShould reject a block with a broken parent link.", success)

		reshaped := block
		reshaped.Trans = []database.SignedTx{trans[1], trans[0]}
		if err := reshaped.ValidateBlock(genesisBlock, testDifficulty, noop); err == nil {
			t.Fatalf("\t%s\tShould reject a block with reordered transactions.", failed)
		}
		t.Logf("\t%s\tShould reject a block with reordered transactions.", success)
	}
}

func TestGenesisBlock(t *testing.T) {
	t.Log("Given the need to validate the genesis block.")
	{
		genesisBlock := database.NewGenesisBlock()

		if genesisBlock.Hash != signature.ZeroHash {
			t.Fatalf("\t%s\tShould carry the zero hash: %s", failed, genesisBlock.Hash)
		}
		t.Logf("\t%s\tShould carry the zero hash.", success)

		if err := genesisBlock.ValidateGenesisBlock(); err != nil {
			t.Fatalf("\t%s\tShould validate against the well known header: %v", failed, err)
		}
		t.Logf("\t%s\tShould validate against the well known header.", success)

		forged := genesisBlock
		forged.Header.Nonce = 7
		if err := forged.ValidateGenesisBlock(); err == nil {
			t.Fatalf("\t%s\tShould reject a forged genesis header.", failed)
		}
		t.Logf("\t%s\tShould reject a forged genesis header.", success)
	}
}

func TestAccountID(t *testing.T) {
	t.Log("Given the need to validate account identity formats.")
	{
		accountID := otherAccount(t)
		if !accountID.IsAccountID() {
			t.Fatalf("\t%s\tShould accept a derived account id: %s", failed, accountID)
		}
		t.Logf("\t%s\tShould accept a derived account id.", success)

		if !database.RewardAccountID.IsAccountID() {
			t.Fatalf("\t%s\tShould accept the reward sentinel.", failed)
		}
		t.Logf("\t%s\tShould accept the reward sentinel.", success)

		bad := []string{"", "0x", "abc", string(accountID)[2:], string(accountID) + "ff", "0x" + "zz" + string(accountID)[4:]}
		for _, b := range bad {
			if _, err := database.ToAccountID(b); err == nil {
				t.Fatalf("\t%s\tShould reject the malformed id %q.", failed, b)
			}
		}
		t.Logf("\t%s\tShould reject malformed ids.", success)
	}
}
