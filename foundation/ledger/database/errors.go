package database

import (
	"errors"
	"fmt"
)

// Set of error variables for validation failures. Every one of them is
// recovered by rejecting the offending input, never by crashing.
var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrUnknownReceiver     = errors.New("receiver is not a valid account id")
	ErrInvalidSignature    = errors.New("transaction signature does not verify")
	ErrInsufficientBalance = errors.New("insufficient balance for transaction")
)

// ChainIntegrityError reports the first block that fails chain-wide
// validation and the condition it violated. The chain is never repaired
// automatically.
type ChainIntegrityError struct {
	Number uint64
	Reason string
}

// Error implements the error interface.
func (e *ChainIntegrityError) Error() string {
	return fmt.Sprintf("chain integrity violation at block %d: %s", e.Number, e.Reason)
}
