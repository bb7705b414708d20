/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the wallet domain model from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY ON THE WIRE:
  Amounts are raw decimal strings at the precision the ledger holds.
  Currency and locale formatting happen in the client.
  Request amounts may be JSON numbers or numeric strings.

VALIDATION:
  Request types carry go-playground/validator tags; handlers call
  h.validate.Struct before touching the ledger.
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/warp/wallet-engine/view"
	"github.com/warp/wallet-engine/wallet"
)

// =============================================================================
// WALLET
// =============================================================================

// WalletDTO is the balance panel: every LedgerState field except the log.
type WalletDTO struct {
	Balance          string     `json:"balance"`
	AvailableBalance string     `json:"available_balance"`
	LockedBalance    string     `json:"locked_balance"`
	TotalDeposited   string     `json:"total_deposited"`
	TotalWithdrawn   string     `json:"total_withdrawn"`
	Metrics          MetricsDTO `json:"metrics"`
	TransactionCount int        `json:"transaction_count"`
	Limits           LimitsDTO  `json:"limits"`
}

type LimitsDTO struct {
	MinDeposit    string `json:"min_deposit"`
	MaxDeposit    string `json:"max_deposit"`
	MinWithdrawal string `json:"min_withdrawal"`
	Scale         int32  `json:"scale"`
}

type MetricsDTO struct {
	NetProfit string `json:"net_profit"`
	ROI       string `json:"roi"`
	WinRate   string `json:"win_rate"`
	TotalBets int    `json:"total_bets"`
	Derived   bool   `json:"derived"`
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type TransactionDTO struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	SignedAmount string `json:"signed_amount"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	Description  string `json:"description"`
}

// PageDTO is one page of the history table plus the request that produced it.
type PageDTO struct {
	Items      []TransactionDTO `json:"items"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	TotalItems int              `json:"total_items"`
	PageSize   int              `json:"page_size"`
	Filter     string           `json:"filter"`
	Sort       string           `json:"sort"`
	Order      string           `json:"order"`
}

// =============================================================================
// REQUESTS
// =============================================================================

type AmountRequest struct {
	Amount json.Number `json:"amount" validate:"required"`
}

type OutcomeRequest struct {
	Type        string      `json:"type" validate:"required,oneof=bet win loss"`
	Amount      json.Number `json:"amount" validate:"required"`
	Description string      `json:"description" validate:"max=200"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed failed"`
}

// historyQuery is the parsed query string of GET /transactions.
type historyQuery struct {
	Filter   string `validate:"omitempty,oneof=all deposit withdrawal bet win loss"`
	Sort     string `validate:"omitempty,oneof=date amount"`
	Order    string `validate:"omitempty,oneof=asc desc"`
	Page     int    `validate:"omitempty,min=1"`
	PageSize int    `validate:"omitempty,min=1,max=100"`
	Step     int    `validate:"omitempty,min=-1,max=1"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toTransactionDTO(tx wallet.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:           string(tx.ID),
		Type:         string(tx.Type),
		Amount:       tx.Amount.String(),
		SignedAmount: tx.SignedAmount().String(),
		Status:       string(tx.Status),
		CreatedAt:    tx.CreatedAt.Format(time.RFC3339),
		Description:  tx.Description,
	}
}

func toMetricsDTO(m wallet.Metrics, derived bool) MetricsDTO {
	return MetricsDTO{
		NetProfit: m.NetProfit.String(),
		ROI:       m.ROI.String(),
		WinRate:   m.WinRate.String(),
		TotalBets: m.TotalBets,
		Derived:   derived,
	}
}

func toWalletDTO(s wallet.LedgerState, limits wallet.Limits) WalletDTO {
	return WalletDTO{
		Balance:          s.Balance.String(),
		AvailableBalance: s.AvailableBalance.String(),
		LockedBalance:    s.LockedBalance.String(),
		TotalDeposited:   s.TotalDeposited.String(),
		TotalWithdrawn:   s.TotalWithdrawn.String(),
		Metrics:          toMetricsDTO(s.Metrics, false),
		TransactionCount: len(s.Transactions),
		Limits: LimitsDTO{
			MinDeposit:    limits.MinDeposit.String(),
			MaxDeposit:    limits.MaxDeposit.String(),
			MinWithdrawal: limits.MinWithdrawal.String(),
			Scale:         limits.Scale,
		},
	}
}

func toPageDTO(p view.Page, req view.Request) PageDTO {
	items := make([]TransactionDTO, len(p.Items))
	for i, tx := range p.Items {
		items[i] = toTransactionDTO(tx)
	}
	return PageDTO{
		Items:      items,
		Page:       p.Page,
		TotalPages: p.TotalPages,
		TotalItems: p.TotalItems,
		PageSize:   p.PageSize,
		Filter:     string(req.Filter),
		Sort:       string(req.SortField),
		Order:      string(req.SortOrder),
	}
}
