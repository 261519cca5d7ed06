package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sinembank-ledger/internal/api/handler"
	"github.com/sinembank-ledger/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	bankHandler *handler.BankHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account operations
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.POST("/:id/deposits", accountHandler.Deposit)
			accounts.POST("/:id/withdrawals", accountHandler.Withdraw)
			accounts.POST("/:id/interest", accountHandler.ApplyInterest)
			accounts.GET("/:id/transactions", accountHandler.Transactions)
			accounts.GET("/:id/fraud-check", accountHandler.FraudCheck)
		}

		// Registry-level analytics
		v1.GET("/analytics/top", bankHandler.TopAccounts)

		// Administrative operations
		admin := v1.Group("/admin")
		{
			admin.POST("/snapshot", bankHandler.Snapshot)
			admin.POST("/interest-sweep", bankHandler.InterestSweep)
		}

		// Informational exchange rates
		v1.GET("/rates", bankHandler.Rates)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
