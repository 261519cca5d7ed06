package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sinembank-ledger/internal/config"
	"github.com/sinembank-ledger/internal/platform/rates"
	"github.com/sinembank-ledger/internal/registry"
)

// BankHandler handles registry-level analytics, admin and rate endpoints
type BankHandler struct {
	registry  *registry.Registry
	rates     *rates.Client
	logger    *slog.Logger
	sweepSize int
	baseCCY   string
}

// NewBankHandler creates a new bank handler
func NewBankHandler(logger *slog.Logger, reg *registry.Registry, rateClient *rates.Client, cfg *config.Config) *BankHandler {
	return &BankHandler{
		registry:  reg,
		rates:     rateClient,
		logger:    logger,
		sweepSize: cfg.WorkerPool.Size,
		baseCCY:   cfg.Bank.BaseCurrency,
	}
}

// TopAccounts returns the n accounts with the largest balance, descending
func (h *BankHandler) TopAccounts(c *gin.Context) {
	n := 3
	if nParam, present := c.GetQuery("n"); present {
		parsed, err := strconv.Atoi(nParam)
		if err != nil {
			RespondBadRequest(c, "n must be an integer")
			return
		}
		n = parsed
	}

	ranked, err := h.registry.TopN(n)
	if err != nil {
		if errors.Is(err, registry.ErrInvalidArgument) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to rank accounts", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AccountResponse, 0, len(ranked))
	for _, acc := range ranked {
		responses = append(responses, mapAccountToResponse(acc))
	}
	RespondOK(c, responses)
}

// Snapshot persists the registry state immediately
func (h *BankHandler) Snapshot(c *gin.Context) {
	if err := h.registry.Persist(); err != nil {
		h.logger.Error("Snapshot failed", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, gin.H{"status": "persisted"})
}

// InterestSweep accrues interest on every savings account
func (h *BankHandler) InterestSweep(c *gin.Context) {
	accrued, err := h.registry.SweepInterest(c.Request.Context(), h.sweepSize)
	if err != nil {
		h.logger.Error("Interest sweep failed", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, SweepResponse{AccountsAccrued: accrued})
}

// Rates returns the exchange-rate table for a base currency. Provider
// failures degrade to the fixed fallback table, never an error.
func (h *BankHandler) Rates(c *gin.Context) {
	base := c.DefaultQuery("base", h.baseCCY)

	result := h.rates.Latest(c.Request.Context(), base)
	resp := RatesResponse{
		Base:     result.Base,
		Rates:    make(map[string]string, len(result.Rates)),
		Fallback: result.Fallback,
	}
	for code, rate := range result.Rates {
		resp.Rates[code] = rate.String()
	}
	RespondOK(c, resp)
}
