package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sinembank-ledger/internal/domain/account"
	"github.com/sinembank-ledger/internal/domain/money"
	"github.com/sinembank-ledger/internal/registry"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, reg *registry.Registry) *AccountHandler {
	return &AccountHandler{
		registry: reg,
		logger:   logger,
	}
}

// Create handles creation of a new account
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	params, err := h.buildParams(req)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	acc, err := h.registry.CreateAccount(params)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrInvalidArgument), errors.Is(err, account.ErrInvalidKind),
			errors.Is(err, account.ErrInvalidAmount):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to create account", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

func (h *AccountHandler) buildParams(req CreateAccountRequest) (registry.CreateAccountParams, error) {
	params := registry.CreateAccountParams{
		OwnerName: req.OwnerName,
		TaxID:     req.TaxID,
		Currency:  req.Currency,
	}

	if req.Kind != "" {
		kind, err := account.ParseKind(req.Kind)
		if err != nil {
			return params, err
		}
		params.Kind = kind
	}
	if req.InitialBalance != "" {
		balance, err := decimal.NewFromString(req.InitialBalance)
		if err != nil {
			return params, errors.New("initial_balance must be a decimal number")
		}
		params.InitialBalance = balance
	}
	if req.InterestRate != "" {
		rate, err := decimal.NewFromString(req.InterestRate)
		if err != nil {
			return params, errors.New("interest_rate must be a decimal number")
		}
		params.InterestRate = &rate
	}
	if req.OverdraftLimit != "" {
		limit, err := decimal.NewFromString(req.OverdraftLimit)
		if err != nil {
			return params, errors.New("overdraft_limit must be a decimal number")
		}
		params.OverdraftLimit = limit
	}
	return params, nil
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	acc, ok := h.lookupAccount(c)
	if !ok {
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// List returns accounts matching the owner substring query, or all accounts
// when no query is given
func (h *AccountHandler) List(c *gin.Context) {
	var matches []*account.Account
	if owner, present := c.GetQuery("owner"); present {
		matches = h.registry.FindByOwner(owner)
	} else {
		matches = h.registry.Accounts()
	}

	responses := make([]AccountResponse, 0, len(matches))
	for _, acc := range matches {
		responses = append(responses, mapAccountToResponse(acc))
	}
	RespondOK(c, responses)
}

// Deposit adds funds to an account
func (h *AccountHandler) Deposit(c *gin.Context) {
	h.mutateBalance(c, func(acc *account.Account, amount money.Money, description string) error {
		return acc.Deposit(amount, description)
	})
}

// Withdraw removes funds from an account under the variant's policy
func (h *AccountHandler) Withdraw(c *gin.Context) {
	h.mutateBalance(c, func(acc *account.Account, amount money.Money, description string) error {
		return acc.Withdraw(amount, description)
	})
}

// mutateBalance runs a deposit or withdrawal and snapshots the registry on
// success
func (h *AccountHandler) mutateBalance(c *gin.Context, op func(*account.Account, money.Money, string) error) {
	acc, ok := h.lookupAccount(c)
	if !ok {
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondBadRequest(c, "amount must be a decimal number")
		return
	}

	if err := op(acc, money.New(amount, acc.Currency()), req.Description); err != nil {
		h.respondDomainError(c, acc, err)
		return
	}

	if err := h.registry.Persist(); err != nil {
		h.logger.Error("Failed to persist after balance change", "account_id", acc.ID(), "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// ApplyInterest accrues one interest period on a savings account
func (h *AccountHandler) ApplyInterest(c *gin.Context) {
	acc, ok := h.lookupAccount(c)
	if !ok {
		return
	}

	interest, err := acc.ApplyInterest()
	if err != nil {
		h.respondDomainError(c, acc, err)
		return
	}

	if err := h.registry.Persist(); err != nil {
		h.logger.Error("Failed to persist after interest accrual", "account_id", acc.ID(), "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, InterestResponse{
		AccountID: acc.ID(),
		Interest:  interest.Amount().StringFixed(2),
		Balance:   acc.Balance().Amount().StringFixed(2),
	})
}

// Transactions returns the account history, optionally filtered by a
// case-insensitive description keyword
func (h *AccountHandler) Transactions(c *gin.Context) {
	acc, ok := h.lookupAccount(c)
	if !ok {
		return
	}

	history := acc.Transactions()
	if keyword, present := c.GetQuery("q"); present {
		history = acc.Search(keyword)
	}

	resp := TransactionListResponse{
		AccountID:    acc.ID(),
		Transactions: make([]TransactionResponse, 0, len(history)),
	}
	for _, t := range history {
		resp.Transactions = append(resp.Transactions, mapTransactionToResponse(t))
	}
	RespondOK(c, resp)
}

// FraudCheck runs the fraud heuristic for a prospective amount against an
// account
func (h *AccountHandler) FraudCheck(c *gin.Context) {
	acc, ok := h.lookupAccount(c)
	if !ok {
		return
	}

	amountParam := c.Query("amount")
	amount, err := decimal.NewFromString(amountParam)
	if err != nil {
		RespondBadRequest(c, "amount must be a decimal number")
		return
	}

	assessment := h.registry.DetectFraud(acc, money.New(amount, acc.Currency()))
	RespondOK(c, FraudCheckResponse{
		AccountID:  acc.ID(),
		Amount:     amount.StringFixed(2),
		Assessment: string(assessment),
	})
}

// lookupAccount resolves the :id path parameter, responding with an error on
// failure
func (h *AccountHandler) lookupAccount(c *gin.Context) (*account.Account, bool) {
	idParam := c.Param("id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return nil, false
	}

	acc, err := h.registry.Account(id)
	if err != nil {
		RespondNotFound(c, "Account not found")
		return nil, false
	}
	return acc, true
}

// respondDomainError maps ledger policy failures to HTTP statuses
func (h *AccountHandler) respondDomainError(c *gin.Context, acc *account.Account, err error) {
	var insufficient account.ErrInsufficientFunds
	var overdraft account.ErrOverdraftExceeded
	switch {
	case errors.Is(err, account.ErrInvalidAmount):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, account.ErrNotInterestBearing):
		RespondConflict(c, "NOT_INTEREST_BEARING", err.Error())
	case errors.As(err, &insufficient):
		RespondConflict(c, "INSUFFICIENT_FUNDS", insufficient.Error())
	case errors.As(err, &overdraft):
		RespondConflict(c, "OVERDRAFT_EXCEEDED", overdraft.Error())
	default:
		h.logger.Error("Account operation failed", "account_id", acc.ID(), "error", err)
		RespondInternalError(c)
	}
}
