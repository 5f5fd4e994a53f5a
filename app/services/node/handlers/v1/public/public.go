// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minichain/minichain/business/web/errs"
	"github.com/minichain/minichain/foundation/events"
	"github.com/minichain/minichain/foundation/ledger/database"
	"github.com/minichain/minichain/foundation/ledger/signature"
	"github.com/minichain/minichain/foundation/ledger/state"
	"github.com/minichain/minichain/foundation/ledger/storage"
	"github.com/minichain/minichain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log          *zap.SugaredLogger
	State        *state.State
	WS           websocket.Upgrader
	Evts         *events.Events
	SnapshotPath string
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// CreateWallet registers a new named wallet and returns its public identity
// together with the private key. The key is surfaced exactly this once.
func (h Handlers) CreateWallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nw newWallet
	if err := web.Decode(r, &nw); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	wlt, privateKey, err := h.State.Registry().Create(nw.Name)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("create wallet", "traceid", v.TraceID, "name", wlt.Name, "account", wlt.AccountID)

	resp := createdWallet{
		Name:       wlt.Name,
		AccountID:  string(wlt.AccountID),
		PrivateKey: privateKey,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Wallets returns the registered wallets with public material only.
func (h Handlers) Wallets(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	wallets := h.State.Registry().List()

	resp := make([]walletInfo, len(wallets))
	for i, wlt := range wallets {
		resp[i] = walletInfo{
			Name:      wlt.Name,
			AccountID: string(wlt.AccountID),
		}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balances returns the chain derived balances, either for every account seen
// on the chain or for the single account in the route.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	var ledgerBalances map[database.AccountID]uint64
	switch account {
	case "":
		ledgerBalances = h.State.Balances()

	default:
		accountID, err := database.ToAccountID(account)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		ledgerBalances = map[database.AccountID]uint64{
			accountID: h.State.Balance(accountID),
		}
	}

	bals := make([]balance, 0, len(ledgerBalances))
	for accountID, amount := range ledgerBalances {
		bals = append(bals, balance{
			Account: accountID,
			Balance: amount,
		})
	}
	sort.Slice(bals, func(i, j int) bool { return bals[i].Account < bals[j].Account })

	bi := balanceInfo{
		LatestBlock: h.State.LatestBlock().Hash,
		Uncommitted: len(h.State.Mempool()),
		Balances:    bals,
	}

	return web.Respond(ctx, w, bi, http.StatusOK)
}

// SubmitTransaction constructs, signs, and adds a new transaction to the
// pending pool. The sender's private key travels with the request, is used
// for the one signature, and is never retained.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var st submitTx
	if err := web.Decode(r, &st); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	senderID, err := database.ToAccountID(st.Sender)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	receiverID, err := database.ToAccountID(st.Receiver)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	privateKey, err := signature.ParsePrivateKey(st.PrivateKey)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to parse private key: %w", err), http.StatusBadRequest)
	}

	tx, err := database.NewTx(senderID, receiverID, st.Amount)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	signedTx, err := tx.Sign(privateKey)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit tran", "traceid", v.TraceID, "tx", signedTx)
	if err := h.State.SubmitTransaction(signedTx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to pending pool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions in submission order.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Mempool(), http.StatusOK)
}

// Mine drains the pending pool into the next block, runs the proof of work,
// and appends the block to the chain. The nonce search honors request
// cancellation, so a dropped client abandons the mining attempt.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var mb mineBlock
	if err := web.Decode(r, &mb); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	beneficiaryID, err := database.ToAccountID(mb.Beneficiary)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("mine block", "traceid", v.TraceID, "beneficiary", beneficiaryID)

	block, err := h.State.MineNextBlock(ctx, beneficiaryID)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Chain returns every block from genesis to tip.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Blocks(), http.StatusOK)
}

// ValidateChain walks the full chain and reports the first violated
// integrity condition, if any.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := len(h.State.Blocks())

	if err := h.State.ValidateChain(); err != nil {
		cs := chainStatus{
			Valid:  false,
			Blocks: blocks,
			Error:  err.Error(),
		}
		return web.Respond(ctx, w, cs, http.StatusOK)
	}

	cs := chainStatus{
		Valid:  true,
		Blocks: blocks,
	}

	return web.Respond(ctx, w, cs, http.StatusOK)
}

// Genesis returns the chain settings the node was started with.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Genesis(), http.StatusOK)
}

// SaveState writes the chain and public wallet registry to the node's
// configured snapshot path.
func (h Handlers) SaveState(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.Log.Infow("save state", "traceid", v.TraceID, "path", h.SnapshotPath)

	if err := h.State.SaveState(h.SnapshotPath); err != nil {
		return err
	}

	resp := struct {
		Status string `json:"status"`
		Path   string `json:"path"`
	}{
		Status: "state saved",
		Path:   h.SnapshotPath,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// LoadState replaces the in-memory chain and wallet registry with the
// snapshot at the node's configured path. Loading does not validate the
// chain; clients call the validate endpoint for integrity assurance.
func (h Handlers) LoadState(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.Log.Infow("load state", "traceid", v.TraceID, "path", h.SnapshotPath)

	if err := h.State.LoadState(h.SnapshotPath); err != nil {
		if errors.Is(err, storage.ErrCorruptFile) || errors.Is(err, storage.ErrSchemaMismatch) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	resp := struct {
		Status string `json:"status"`
		Blocks int    `json:"blocks"`
	}{
		Status: "state loaded",
		Blocks: len(h.State.Blocks()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
