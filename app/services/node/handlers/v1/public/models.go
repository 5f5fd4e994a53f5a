package public

import (
	"github.com/minichain/minichain/foundation/ledger/database"
	"github.com/minichain/minichain/foundation/validate"
)

// newWallet is what is required to register a wallet.
type newWallet struct {
	Name string `json:"name" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (nw newWallet) Validate() error {
	if err := validate.Check(nw); err != nil {
		return err
	}
	return nil
}

// walletInfo represents the public material of a registered wallet.
type walletInfo struct {
	Name      string `json:"name"`
	AccountID string `json:"account_id"`
}

// createdWallet is returned once from wallet creation. This is the only time
// the private key crosses the API boundary; it is not retained server side.
type createdWallet struct {
	Name       string `json:"name"`
	AccountID  string `json:"account_id"`
	PrivateKey string `json:"private_key"`
}

// submitTx is what is required to submit a transaction. The node constructs
// and signs the transaction on the sender's behalf with the provided key.
type submitTx struct {
	Sender     string `json:"sender" validate:"required"`
	PrivateKey string `json:"private_key" validate:"required"`
	Receiver   string `json:"receiver" validate:"required"`
	Amount     uint64 `json:"amount" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (st submitTx) Validate() error {
	if err := validate.Check(st); err != nil {
		return err
	}
	return nil
}

// mineBlock is what is required to mine the next block.
type mineBlock struct {
	Beneficiary string `json:"beneficiary" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (mb mineBlock) Validate() error {
	if err := validate.Check(mb); err != nil {
		return err
	}
	return nil
}

// balance represents an account and its chain derived balance.
type balance struct {
	Account database.AccountID `json:"account"`
	Balance uint64             `json:"balance"`
}

// balanceInfo wraps the balances with chain context.
type balanceInfo struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

// chainStatus reports the result of a full chain validation walk.
type chainStatus struct {
	Valid  bool   `json:"valid"`
	Blocks int    `json:"blocks"`
	Error  string `json:"error,omitempty"`
}
