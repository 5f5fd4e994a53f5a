package merkle_test

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/minichain/minichain/foundation/ledger/merkle"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func leaves(values ...string) [][]byte {
	l := make([][]byte, len(values))
	for i, v := range values {
		h := sha256.Sum256([]byte(v))
		l[i] = h[:]
	}
	return l
}

func TestRoot(t *testing.T) {
	type table struct {
		name   string
		values []string
	}

	tt := []table{
		{name: "single", values: []string{"a"}},
		{name: "pair", values: []string{"a", "b"}},
		{name: "odd", values: []string{"a", "b", "c"}},
		{name: "larger", values: []string{"a", "b", "c", "d", "e", "f", "g"}},
	}

	t.Log("Given the need to validate the transactions root.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling the %s leaf set.", testID, tst.name)
			{
				f := func(t *testing.T) {
					root := merkle.Root(leaves(tst.values...))
					if len(root) != sha256.Size {
						t.Fatalf("\t%s\tTest %d:\tShould get back a 32 byte root.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back a 32 byte root.", success, testID)

					again := merkle.Root(leaves(tst.values...))
					if !bytes.Equal(root, again) {
						t.Fatalf("\t%s\tTest %d:\tShould get back the same root twice.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the same root twice.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestRootOrderSensitive(t *testing.T) {
	t.Log("Given the need to detect a reordering of the leaves.")
	{
		root := merkle.Root(leaves("a", "b", "c"))
		swapped := merkle.Root(leaves("b", "a", "c"))

		if bytes.Equal(root, swapped) {
			t.Fatalf("\t%s\tShould get back a different root for a different order.", failed)
		}
		t.Logf("\t%s\tShould get back a different root for a different order.", success)
	}
}

func TestRootTamper(t *testing.T) {
	t.Log("Given the need to detect a tampered leaf.")
	{
		root := merkle.Root(leaves("a", "b", "c", "d"))
		tampered := merkle.Root(leaves("a", "b", "x", "d"))

		if bytes.Equal(root, tampered) {
			t.Fatalf("\t%s\tShould get back a different root for a tampered leaf.", failed)
		}
		t.Logf("\t%s\tShould get back a different root for a tampered leaf.", success)
	}
}

func TestRootEmpty(t *testing.T) {
	t.Log("Given the need to root an empty leaf set.")
	{
		root := merkle.Root(nil)
		if len(root) != sha256.Size {
			t.Fatalf("\t%s\tShould get back a 32 byte root for no leaves.", failed)
		}
		t.Logf("\t%s\tShould get back a 32 byte root for no leaves.", success)

		if merkle.RootHex(nil) != merkle.RootHex([][]byte{}) {
			t.Fatalf("\t%s\tShould get back the same root for nil and empty.", failed)
		}
		t.Logf("\t%s\tShould get back the same root for nil and empty.", success)
	}
}
