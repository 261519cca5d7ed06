package registry

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinembank-ledger/internal/domain/account"
)

func TestRegistry_SweepInterest(t *testing.T) {
	t.Run("AccruesOnEverySavingsAccount", func(t *testing.T) {
		reg := newTestRegistry(t)

		rate := decimal.RequireFromString("0.10")
		var savings []*account.Account
		for i := 0; i < 5; i++ {
			acc, err := reg.CreateAccount(CreateAccountParams{
				OwnerName:      "Sinem Onar",
				Kind:           account.KindSavings,
				InterestRate:   &rate,
				InitialBalance: decimal.NewFromInt(1000),
			})
			require.NoError(t, err)
			savings = append(savings, acc)
		}
		standard, err := reg.CreateAccount(CreateAccountParams{
			OwnerName:      "Deniz Kaya",
			InitialBalance: decimal.NewFromInt(1000),
		})
		require.NoError(t, err)

		accrued, err := reg.SweepInterest(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, 5, accrued)

		for _, acc := range savings {
			assert.True(t, acc.Balance().Equal(try(1100)), "account %d: got %s", acc.ID(), acc.Balance())
			assert.True(t, acc.Balance().Equal(acc.RunningBalance()))
		}
		// Standard accounts are untouched
		assert.True(t, standard.Balance().Equal(try(1000)))
		assert.Len(t, standard.Transactions(), 1)
	})

	t.Run("EmptyBalancesAccrueNothing", func(t *testing.T) {
		reg := newTestRegistry(t)
		_, err := reg.CreateAccount(CreateAccountParams{
			OwnerName: "Sinem Onar",
			Kind:      account.KindSavings,
		})
		require.NoError(t, err)

		accrued, err := reg.SweepInterest(context.Background(), 2)
		require.NoError(t, err)
		assert.Zero(t, accrued)
	})

	t.Run("NoSavingsAccounts", func(t *testing.T) {
		reg := newTestRegistry(t)
		_, err := reg.CreateAccount(CreateAccountParams{OwnerName: "Deniz Kaya"})
		require.NoError(t, err)

		accrued, err := reg.SweepInterest(context.Background(), 2)
		require.NoError(t, err)
		assert.Zero(t, accrued)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		reg := newTestRegistry(t)
		_, err := reg.CreateAccount(CreateAccountParams{
			OwnerName:      "Sinem Onar",
			Kind:           account.KindSavings,
			InitialBalance: decimal.NewFromInt(1000),
		})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = reg.SweepInterest(ctx, 2)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
