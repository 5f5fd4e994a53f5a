// Package signature provides the cryptographic key service for the ledger:
// key pair generation, signing of canonical payloads, and verification.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// GenerateKey produces a fresh secp256k1 key pair. A failure here means the
// entropy source is broken and is not retryable.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("unable to generate private key: %w", err)
	}

	return privateKey, nil
}

// PublicKeyHex returns the hex encoding of the compressed public key. This
// value is used as the account identity across the ledger.
func PublicKeyHex(publicKey ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.CompressPubkey(&publicKey))
}

// PrivateKeyHex returns the hex encoding of the private scalar.
func PrivateKeyHex(privateKey *ecdsa.PrivateKey) string {
	return hexutil.Encode(crypto.FromECDSA(privateKey))
}

// ParsePrivateKey converts a hex encoded private scalar back into a usable
// key. The 0x prefix is optional.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key: %w", err)
	}

	return privateKey, nil
}

// =============================================================================

// Hash returns a unique string for the value.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// Sign uses the specified private key to sign the value and returns the
// signature in its hex encoded [R|S|V] format.
func Sign(value any, privateKey *ecdsa.PrivateKey) (string, error) {

	// Prepare the data for signing.
	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", err
	}

	return hexutil.Encode(sig), nil
}

// Verify reports whether the signature over the value was produced by the
// private key behind the specified public key. Malformed input of any kind
// yields false, never a panic.
func Verify(publicKey string, value any, sig string) bool {
	pub, err := hexutil.Decode(publicKey)
	if err != nil {
		return false
	}

	sigBytes, err := hexutil.Decode(sig)
	if err != nil || len(sigBytes) < crypto.RecoveryIDOffset {
		return false
	}

	data, err := stamp(value)
	if err != nil {
		return false
	}

	return crypto.VerifySignature(pub, data, sigBytes[:crypto.RecoveryIDOffset])
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this data with
// the chain stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {

	// Marshal the data.
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Hash the data into a 32 byte array. This will provide
	// a data length consistency with all data.
	txHash := crypto.Keccak256(v)

	// This stamp is used so signatures produced when signing data
	// are always unique to this chain.
	stamp := []byte("\x19MiniChain Signed Message:\n32")

	// Hash the stamp and txHash together in a final 32 byte array
	// that represents the data.
	data := crypto.Keccak256(stamp, txHash)

	return data, nil
}
