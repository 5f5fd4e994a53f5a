package database

import (
	"crypto/ecdsa"
	"errors"

	"github.com/minichain/minichain/foundation/ledger/signature"
)

// AccountID represents the public identity used to send and receive value on
// the chain. It is the hex encoding of a compressed secp256k1 public key.
type AccountID string

// RewardAccountID is the sentinel sender for mining reward transactions. It
// is not bound to any wallet and introduces new value into the ledger.
const RewardAccountID AccountID = "0x000000000000000000000000000000000000000000000000000000000000000000"

// ToAccountID converts a hex encoded string to an account id and validates
// the string is formatted correctly.
func ToAccountID(hex string) (AccountID, error) {
	a := AccountID(hex)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// PublicKeyToAccountID converts the public key to an account id value.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(signature.PublicKeyHex(pk))
}

// IsAccountID verifies whether the underlying data represents a valid
// hex encoded compressed public key.
func (a AccountID) IsAccountID() bool {
	const keyLength = 33

	if !has0xPrefix(a) {
		return false
	}

	return len(a) == 2+2*keyLength && isHex(a[2:])
}

// =============================================================================

// has0xPrefix validates the account id starts with a 0x.
func has0xPrefix(a AccountID) bool {
	return len(a) >= 2 && a[0] == '0' && (a[1] == 'x' || a[1] == 'X')
}

// isHex validates whether each byte is a valid hexadecimal character.
func isHex(a AccountID) bool {
	if len(a)%2 != 0 {
		return false
	}

	for _, c := range []byte(a) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
