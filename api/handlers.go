/*
handlers.go - HTTP API handlers for the wallet

PURPOSE:
  Exposes the wallet ledger and history projector via REST. Handles HTTP
  request/response, JSON serialization and validation, and delegates to the
  wallet and view packages. Nothing here renders UI.

ENDPOINTS:
  Wallet:
    GET    /api/wallet                         Balance panel
    GET    /api/wallet/metrics[?derived=true]  Held or log-derived metrics
    POST   /api/wallet/deposit                 {amount}
    POST   /api/wallet/withdraw                {amount}
    POST   /api/wallet/outcomes                {type: bet|win|loss, amount, description}

  History:
    GET    /api/wallet/transactions            ?filter&sort&order&page&page_size&step
    GET    /api/wallet/transactions/{id}
    POST   /api/wallet/transactions/{id}/status {status}

  Scenarios:
    GET    /api/scenarios
    POST   /api/scenarios/load                 {scenario_id}

ARCHITECTURE:
  Handler owns the single session Ledger. The ledger is single-threaded, so
  every handler that touches it holds h.mu for the whole ledger call.
  After each mutation the outcome is written to the journal (if any); a
  journal failure is logged and never changes the response.

ERROR HANDLING:
  - 400: invalid body, invalid amount, unknown type, bad query
  - 404: unknown transaction
  - 409: illegal status transition
  - 422: insufficient funds
  - 500: anything else
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/warp/wallet-engine/view"
	"github.com/warp/wallet-engine/wallet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// maxBodyBytes caps request bodies; every request here is a few fields.
const maxBodyBytes = 64 << 10

// Options configures a Handler. Zero values get defaults.
type Options struct {
	Limits   *wallet.Limits // nil means wallet.DefaultLimits
	Clock    wallet.Clock
	IDs      wallet.IDSource
	Journal  wallet.Journal // nil disables journaling
	Logger   logrus.FieldLogger
	Scenario string // loaded at startup; empty means "demo"
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu              sync.Mutex
	ledger          *wallet.Ledger
	currentScenario string

	limits   wallet.Limits
	clock    wallet.Clock
	ids      wallet.IDSource
	journal  wallet.Journal
	log      logrus.FieldLogger
	validate *validator.Validate
}

// NewHandler creates a handler and loads the configured scenario.
func NewHandler(opts Options) (*Handler, error) {
	h := &Handler{
		limits:   wallet.DefaultLimits(),
		clock:    opts.Clock,
		ids:      opts.IDs,
		journal:  opts.Journal,
		log:      opts.Logger,
		validate: validator.New(),
	}
	if opts.Limits != nil {
		h.limits = *opts.Limits
	}
	if h.clock == nil {
		h.clock = wallet.SystemClock{}
	}
	if h.ids == nil {
		h.ids = wallet.UUIDSource{}
	}
	if h.log == nil {
		h.log = logrus.StandardLogger()
	}

	scenario := opts.Scenario
	if scenario == "" {
		scenario = ScenarioDemo
	}
	if err := h.loadScenario(scenario); err != nil {
		return nil, err
	}
	return h, nil
}

// =============================================================================
// WALLET HANDLERS
// =============================================================================

// GetWallet returns the balance panel.
func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	snap := h.ledger.Snapshot()
	limits := h.ledger.Limits()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, toWalletDTO(snap, limits))
}

// GetMetrics returns the held aggregates, or figures derived from the log
// when ?derived=true.
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	derived := false
	if v := r.URL.Query().Get("derived"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid metrics query", errors.New("derived must be a boolean"))
			return
		}
		derived = b
	}

	h.mu.Lock()
	var m wallet.Metrics
	if derived {
		m = wallet.DeriveMetrics(h.ledger.Transactions())
	} else {
		m = h.ledger.Metrics()
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, toMetricsDTO(m, derived))
}

// Deposit credits the wallet.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.mutateAmount(w, r, wallet.ActionDeposit, func(amount decimal.Decimal) (wallet.Transaction, error) {
		return h.ledger.Deposit(amount)
	})
}

// Withdraw debits the wallet; the transaction stays pending until settled.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutateAmount(w, r, wallet.ActionWithdrawal, func(amount decimal.Decimal) (wallet.Transaction, error) {
		return h.ledger.Withdraw(amount)
	})
}

func (h *Handler) mutateAmount(w http.ResponseWriter, r *http.Request, action wallet.JournalAction, op func(decimal.Decimal) (wallet.Transaction, error)) {
	var req AmountRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, err := wallet.ParseAmount(req.Amount.String())
	if err != nil {
		h.record(r.Context(), action, decimal.Zero, wallet.Transaction{}, err)
		writeDomainError(w, err)
		return
	}

	h.mu.Lock()
	tx, err := op(amount)
	h.mu.Unlock()

	h.record(r.Context(), action, amount, tx, err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

// RecordOutcome appends a bet, win or loss without moving balances.
func (h *Handler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	var req OutcomeRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, err := wallet.ParseAmount(req.Amount.String())
	if err != nil {
		h.record(r.Context(), wallet.ActionOutcome, decimal.Zero, wallet.Transaction{}, err)
		writeDomainError(w, err)
		return
	}

	h.mu.Lock()
	tx, err := h.ledger.RecordOutcome(wallet.TransactionType(req.Type), amount, req.Description)
	h.mu.Unlock()

	h.record(r.Context(), wallet.ActionOutcome, amount, tx, err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

// =============================================================================
// HISTORY HANDLERS
// =============================================================================

// ListTransactions returns one page of the filtered, sorted history.
// With step=1 or step=-1 the page is moved relative to ?page, clamped to the
// pages available under the filter.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseHistoryQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid history query", err)
		return
	}

	req := view.Request{
		Filter:    view.Filter(q.Filter),
		SortField: view.SortField(q.Sort),
		SortOrder: view.SortOrder(q.Order),
		Page:      q.Page,
		PageSize:  q.PageSize,
	}.Normalize()

	h.mu.Lock()
	txs := h.ledger.Transactions()
	h.mu.Unlock()

	var page view.Page
	if q.Step != 0 {
		req, page = view.ChangePage(txs, req, q.Step)
	} else {
		page = view.Project(txs, req)
	}
	writeJSON(w, http.StatusOK, toPageDTO(page, req))
}

// GetTransaction returns a single transaction.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := wallet.TransactionID(chi.URLParam(r, "id"))

	h.mu.Lock()
	tx, err := h.ledger.Transaction(id)
	h.mu.Unlock()

	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(tx))
}

// SetTransactionStatus settles a pending transaction (settlement callback).
func (h *Handler) SetTransactionStatus(w http.ResponseWriter, r *http.Request) {
	id := wallet.TransactionID(chi.URLParam(r, "id"))

	var req StatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	tx, err := h.ledger.SetStatus(id, wallet.TransactionStatus(req.Status))
	h.mu.Unlock()

	h.record(r.Context(), wallet.ActionStatusChange, decimal.Zero, tx, err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(tx))
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) parseHistoryQuery(r *http.Request) (historyQuery, error) {
	values := r.URL.Query()
	q := historyQuery{
		Filter: values.Get("filter"),
		Sort:   values.Get("sort"),
		Order:  values.Get("order"),
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"page", &q.Page},
		{"page_size", &q.PageSize},
		{"step", &q.Step},
	}
	for _, f := range ints {
		s := values.Get(f.key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, errors.New(f.key + " must be an integer")
		}
		*f.dst = n
	}

	return q, h.validate.Struct(q)
}

// decode reads and validates a JSON body. It writes the 400 itself and
// reports false on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// record writes the outcome of a ledger call to the journal and the log.
func (h *Handler) record(ctx context.Context, action wallet.JournalAction, requested decimal.Decimal, tx wallet.Transaction, opErr error) {
	entry := wallet.NewEntry(h.clock.Now(), action, requested, tx, opErr)

	fields := logrus.Fields{
		"op":     string(action),
		"amount": entry.Amount.String(),
	}
	if opErr != nil {
		fields["error_kind"] = entry.ErrorKind
		h.log.WithFields(fields).Warnf("rejected: %v", opErr)
	} else {
		fields["tx_id"] = string(tx.ID)
		fields["status"] = string(tx.Status)
		h.log.WithFields(fields).Info("applied")
	}

	if h.journal == nil {
		return
	}
	if err := h.journal.Record(ctx, entry); err != nil {
		h.log.WithFields(fields).WithError(err).Error("journal write failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps wallet errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount), errors.Is(err, wallet.ErrInvalidType):
		status = http.StatusBadRequest
	case errors.Is(err, wallet.ErrInsufficientFunds):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, wallet.ErrTransactionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, wallet.ErrInvalidTransition):
		status = http.StatusConflict
	}
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Kind:    wallet.ErrorKind(err),
		Details: err.Error(),
	})
}
