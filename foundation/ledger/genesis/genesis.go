// Package genesis maintains access to the chain settings.
package genesis

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

// Genesis represents the fixed settings of the chain. The difficulty is a
// configuration constant and is not persisted per block.
type Genesis struct {
	Difficulty   uint   `json:"difficulty"`    // Number of leading zero hex digits required for the proof of work.
	MiningReward uint64 `json:"mining_reward"` // Reward credited for mining a block.
}

// Default returns the reference settings.
func Default() Genesis {
	return Genesis{
		Difficulty:   4,
		MiningReward: 50,
	}
}

// Load opens and consumes the genesis settings file. When no file exists at
// the path the reference defaults are used.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
