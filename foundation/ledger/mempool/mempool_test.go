package mempool_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/minichain/minichain/foundation/ledger/database"
	"github.com/minichain/minichain/foundation/ledger/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func sign(receiver database.AccountID, amount uint64) (database.SignedTx, error) {
	pk, err := crypto.HexToECDSA("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
	if err != nil {
		return database.SignedTx{}, err
	}

	tx, err := database.NewTx(database.PublicKeyToAccountID(pk.PublicKey), receiver, amount)
	if err != nil {
		return database.SignedTx{}, err
	}

	return tx.Sign(pk)
}

func TestFIFO(t *testing.T) {
	type table struct {
		name    string
		amounts []uint64
	}

	tt := []table{
		{
			name:    "basic",
			amounts: []uint64{40, 10, 30, 20},
		},
	}

	t.Log("Given the need to validate the pending pool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transactions.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					receiver, err := sign(database.RewardAccountID, 1)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to sign transaction.", failed, testID)
					}

					for _, amount := range tst.amounts {
						tx, err := sign(receiver.SenderID, amount)
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to sign transaction.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould be able to sign transaction.", success, testID)

						mp.Append(tx)
						t.Logf("\t%s\tTest %d:\tShould be able to add new transaction: %s", success, testID, tx)
					}

					if mp.Count() != len(tst.amounts) {
						t.Fatalf("\t%s\tTest %d:\tShould get back the right count.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the right count.", success, testID)

					// The pool hands transactions back in submission order,
					// not by amount or any other priority.
					for i, tx := range mp.PickAll() {
						if tx.Amount != tst.amounts[i] {
							t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, tx.Amount)
							t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, tst.amounts[i])
							t.Fatalf("\t%s\tTest %d:\tShould get back transactions in submission order.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould get back transactions in submission order: %d", success, testID, tx.Amount)
					}

					mp.Truncate()
					if mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to truncate the pool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to truncate the pool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestPickAllCopy(t *testing.T) {
	t.Log("Given the need to protect the pool from callers mutating the copy.")
	{
		mp := mempool.New()

		tx, err := sign(database.RewardAccountID, 10)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign transaction.", failed)
		}
		mp.Append(tx)

		picked := mp.PickAll()
		picked[0].Amount = 999

		if mp.PickAll()[0].Amount != 10 {
			t.Fatalf("\t%s\tShould hand back an independent copy.", failed)
		}
		t.Logf("\t%s\tShould hand back an independent copy.", success)
	}
}
