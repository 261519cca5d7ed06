package handler

import (
	"time"

	"github.com/sinembank-ledger/internal/domain/account"
	"github.com/sinembank-ledger/internal/domain/ledger"
)

// Monetary amounts travel as decimal strings so nothing is lost to binary
// floating point on the wire.

// CreateAccountRequest represents a request to create a new account
type CreateAccountRequest struct {
	OwnerName      string `json:"owner_name" binding:"required"`
	TaxID          string `json:"tax_id,omitempty"`
	Kind           string `json:"kind" binding:"omitempty,oneof=STANDARD SAVINGS CHECKING standard savings checking"`
	Currency       string `json:"currency" binding:"omitempty,len=3"`
	InitialBalance string `json:"initial_balance,omitempty"`
	InterestRate   string `json:"interest_rate,omitempty"`
	OverdraftLimit string `json:"overdraft_limit,omitempty"`
}

// AmountRequest represents a deposit or withdrawal request
type AmountRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description,omitempty"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID                int64  `json:"id"`
	OwnerName         string `json:"owner_name"`
	CustomerID        int64  `json:"customer_id"`
	Kind              string `json:"kind"`
	Currency          string `json:"currency"`
	Balance           string `json:"balance"`
	InterestRate      string `json:"interest_rate,omitempty"`
	OverdraftLimit    string `json:"overdraft_limit,omitempty"`
	ProjectedInterest string `json:"projected_interest,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// TransactionListResponse represents an account's history in API responses
type TransactionListResponse struct {
	AccountID    int64                 `json:"account_id"`
	Transactions []TransactionResponse `json:"transactions"`
}

// InterestResponse represents the outcome of an interest accrual
type InterestResponse struct {
	AccountID int64  `json:"account_id"`
	Interest  string `json:"interest"`
	Balance   string `json:"balance"`
}

// FraudCheckResponse represents a fraud assessment
type FraudCheckResponse struct {
	AccountID  int64  `json:"account_id"`
	Amount     string `json:"amount"`
	Assessment string `json:"assessment"`
}

// SweepResponse represents the outcome of an interest sweep
type SweepResponse struct {
	AccountsAccrued int `json:"accounts_accrued"`
}

// RatesResponse represents an exchange-rate lookup
type RatesResponse struct {
	Base     string            `json:"base"`
	Rates    map[string]string `json:"rates"`
	Fallback bool              `json:"fallback"`
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	resp := AccountResponse{
		ID:         acc.ID(),
		OwnerName:  acc.Owner().Name,
		CustomerID: acc.Owner().ID,
		Kind:       string(acc.Kind()),
		Currency:   acc.Currency(),
		Balance:    acc.Balance().Amount().StringFixed(2),
	}
	switch acc.Kind() {
	case account.KindSavings:
		resp.InterestRate = acc.InterestRate().String()
		resp.ProjectedInterest = acc.ProjectedInterest(1).Amount().StringFixed(2)
	case account.KindChecking:
		resp.OverdraftLimit = acc.OverdraftLimit().Amount().StringFixed(2)
	}
	return resp
}

// mapTransactionToResponse maps a ledger transaction to a response DTO
func mapTransactionToResponse(t ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID.String(),
		Kind:        string(t.Kind),
		Amount:      t.Amount.Amount().StringFixed(2),
		Currency:    t.Amount.Currency(),
		Description: t.Description,
		Timestamp:   t.Timestamp.Format(time.RFC3339),
	}
}
