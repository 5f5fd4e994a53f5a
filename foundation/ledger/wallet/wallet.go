// Package wallet provides named key holders and the registry mapping public
// identities to wallets. The registry is an explicit value owned by the
// application layer and passed into ledger operations, not ambient state.
package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"sync"

	"github.com/minichain/minichain/foundation/ledger/database"
	"github.com/minichain/minichain/foundation/ledger/signature"
)

// ErrUnauthorizedSigning is returned when a signing operation is attempted
// on a wallet that holds no private key, such as one reconstructed from
// persisted state.
var ErrUnauthorizedSigning = errors.New("wallet holds no private key")

// Wallet is a named holder of a key pair. Identity is the public key; the
// balance is derived from the chain and never stored here.
type Wallet struct {
	Name      string
	AccountID database.AccountID

	privateKey *ecdsa.PrivateKey
}

// New creates a wallet with a fresh key pair bound to the specified name.
func New(name string) (Wallet, error) {
	privateKey, err := signature.GenerateKey()
	if err != nil {
		return Wallet{}, err
	}

	w := Wallet{
		Name:       name,
		AccountID:  database.PublicKeyToAccountID(privateKey.PublicKey),
		privateKey: privateKey,
	}

	return w, nil
}

// FromPrivateKey reconstructs a wallet around an existing key.
func FromPrivateKey(name string, privateKey *ecdsa.PrivateKey) Wallet {
	return Wallet{
		Name:       name,
		AccountID:  database.PublicKeyToAccountID(privateKey.PublicKey),
		privateKey: privateKey,
	}
}

// Public returns a copy of the wallet without the secret material.
func (w Wallet) Public() Wallet {
	w.privateKey = nil
	return w
}

// SignTx signs the transaction with the wallet's key.
func (w Wallet) SignTx(tx database.Tx) (database.SignedTx, error) {
	if w.privateKey == nil {
		return database.SignedTx{}, ErrUnauthorizedSigning
	}

	return tx.Sign(w.privateKey)
}

// =============================================================================

// Registry maps public identities to wallets, preserving insertion order for
// listing. It lives for the process lifetime or until reloaded from a
// snapshot.
type Registry struct {
	mu      sync.RWMutex
	order   []database.AccountID
	wallets map[database.AccountID]Wallet
}

// NewRegistry constructs an empty wallet registry.
func NewRegistry() *Registry {
	return &Registry{
		wallets: make(map[database.AccountID]Wallet),
	}
}

// Create generates a key pair, registers the wallet under its public
// identity, and returns the wallet together with the hex encoded private
// key. The private key is surfaced exactly this once; the registry keeps
// public material only and can never re-expose it.
func (r *Registry) Create(name string) (Wallet, string, error) {
	w, err := New(name)
	if err != nil {
		return Wallet{}, "", err
	}

	privateKeyHex := signature.PrivateKeyHex(w.privateKey)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.wallets[w.AccountID]; exists {
		return Wallet{}, "", fmt.Errorf("account %s already registered", w.AccountID)
	}

	r.order = append(r.order, w.AccountID)
	r.wallets[w.AccountID] = w.Public()

	return w.Public(), privateKeyHex, nil
}

// Lookup returns the wallet registered under the specified identity.
func (r *Registry) Lookup(accountID database.AccountID) (Wallet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, exists := r.wallets[accountID]
	return w, exists
}

// List returns the registered wallets in insertion order.
func (r *Registry) List() []Wallet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wallets := make([]Wallet, 0, len(r.order))
	for _, accountID := range r.order {
		wallets = append(wallets, r.wallets[accountID])
	}

	return wallets
}

// Replace swaps the registry contents with the specified wallets, in the
// order given. Used when reloading public wallet material from a snapshot.
func (r *Registry) Replace(wallets []Wallet) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = make([]database.AccountID, 0, len(wallets))
	r.wallets = make(map[database.AccountID]Wallet, len(wallets))

	for _, w := range wallets {
		w = w.Public()
		r.order = append(r.order, w.AccountID)
		r.wallets[w.AccountID] = w
	}
}
