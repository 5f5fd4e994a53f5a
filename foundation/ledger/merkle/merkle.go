// Package merkle computes the order-sensitive transactions root carried in
// the block header. Any change to a transaction, or to the order of the
// transactions, changes the root and therefore the block hash.
package merkle

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Root computes the merkle root over the specified leaf hashes. The last
// leaf is duplicated when a layer holds an odd number of nodes. An empty
// set of leaves yields the hash of no data, so a block with no transactions
// still has a well defined root.
func Root(leaves [][]byte) []byte {
	if len(leaves) == 0 {
		empty := sha256.Sum256(nil)
		return empty[:]
	}

	layer := make([][]byte, len(leaves))
	copy(layer, leaves)

	for len(layer) > 1 {
		if len(layer)%2 == 1 {
			layer = append(layer, layer[len(layer)-1])
		}

		next := make([][]byte, 0, len(layer)/2)
		for i := 0; i < len(layer); i += 2 {
			pair := make([]byte, 0, len(layer[i])+len(layer[i+1]))
			pair = append(pair, layer[i]...)
			pair = append(pair, layer[i+1]...)

			hash := sha256.Sum256(pair)
			next = append(next, hash[:])
		}

		layer = next
	}

	return layer[0]
}

// RootHex computes the merkle root and returns its hex encoding.
func RootHex(leaves [][]byte) string {
	return hexutil.Encode(Root(leaves))
}
