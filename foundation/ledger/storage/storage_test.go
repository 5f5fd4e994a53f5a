package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/minichain/minichain/foundation/ledger/database"
	"github.com/minichain/minichain/foundation/ledger/storage"
	"github.com/minichain/minichain/foundation/ledger/wallet"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func noop(v string, args ...any) {}

func testSnapshot(t *testing.T) storage.Snapshot {
	t.Helper()

	w, err := wallet.New("alice")
	if err != nil {
		t.Fatalf("Should be able to create a wallet: %s", err)
	}

	tx, err := database.NewTx(w.AccountID, database.RewardAccountID, 10)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %s", err)
	}
	signedTx, err := w.SignTx(tx)
	if err != nil {
		t.Fatalf("Should be able to sign a transaction: %s", err)
	}

	genesisBlock := database.NewGenesisBlock()
	block, err := database.POW(context.Background(), 1, genesisBlock, []database.SignedTx{signedTx}, noop)
	if err != nil {
		t.Fatalf("Should be able to mine a block: %s", err)
	}

	return storage.Snapshot{
		Wallets: map[string]storage.WalletRecord{
			string(w.AccountID): {Name: w.Name},
		},
		Chain: []database.Block{genesisBlock, block},
	}
}

func TestSaveLoad(t *testing.T) {
	t.Log("Given the need to round trip a ledger snapshot through disk.")
	{
		path := filepath.Join(t.TempDir(), "zblock", "snapshot.json")
		snapshot := testSnapshot(t)

		if err := storage.Save(path, snapshot); err != nil {
			t.Fatalf("\t%s\tShould be able to save the snapshot: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to save the snapshot.", success)

		loaded, err := storage.Load(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the snapshot: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to load the snapshot.", success)

		if !reflect.DeepEqual(snapshot, loaded) {
			t.Logf("\t%s\tgot: %+v", failed, loaded)
			t.Logf("\t%s\texp: %+v", failed, snapshot)
			t.Fatalf("\t%s\tShould get back the snapshot field for field.", failed)
		}
		t.Logf("\t%s\tShould get back the snapshot field for field.", success)
	}
}

func TestSaveLeavesNoTemp(t *testing.T) {
	t.Log("Given the need to write snapshots atomically.")
	{
		dir := t.TempDir()
		path := filepath.Join(dir, "snapshot.json")

		if err := storage.Save(path, testSnapshot(t)); err != nil {
			t.Fatalf("\t%s\tShould be able to save the snapshot: %v", failed, err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read the directory: %v", failed, err)
		}

		if len(entries) != 1 || entries[0].Name() != "snapshot.json" {
			t.Fatalf("\t%s\tShould leave only the final file behind.", failed)
		}
		t.Logf("\t%s\tShould leave only the final file behind.", success)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Log("Given the need to report a missing snapshot file.")
	{
		_, err := storage.Load(filepath.Join(t.TempDir(), "nope.json"))
		if err == nil {
			t.Fatalf("\t%s\tShould report an error for a missing file.", failed)
		}
		t.Logf("\t%s\tShould report an error for a missing file.", success)
	}
}

func TestLoadCorrupt(t *testing.T) {
	t.Log("Given the need to report a corrupt snapshot file.")
	{
		path := filepath.Join(t.TempDir(), "snapshot.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatalf("\t%s\tShould be able to write the file: %v", failed, err)
		}

		_, err := storage.Load(path)
		if !errors.Is(err, storage.ErrCorruptFile) {
			t.Fatalf("\t%s\tShould report a corrupt file: %v", failed, err)
		}
		t.Logf("\t%s\tShould report a corrupt file.", success)
	}
}

func TestLoadSchemaMismatch(t *testing.T) {
	type table struct {
		name string
		doc  string
	}

	tt := []table{
		{name: "missing wallets", doc: `{"chain": []}`},
		{name: "missing chain", doc: `{"wallets": {}}`},
		{name: "unrelated document", doc: `{"foo": 1}`},
	}

	t.Log("Given the need to reject documents with the wrong shape.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen loading the %s document.", testID, tst.name)
			{
				f := func(t *testing.T) {
					path := filepath.Join(t.TempDir(), "snapshot.json")
					if err := os.WriteFile(path, []byte(tst.doc), 0644); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
					}

					_, err := storage.Load(path)
					if !errors.Is(err, storage.ErrSchemaMismatch) {
						t.Fatalf("\t%s\tTest %d:\tShould report a schema mismatch: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould report a schema mismatch.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
