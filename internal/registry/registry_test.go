package registry

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinembank-ledger/internal/domain/account"
	"github.com/sinembank-ledger/internal/domain/money"
	"github.com/sinembank-ledger/internal/platform/store"
)

func testOptions() Options {
	return Options{
		BaseCurrency:              "TRY",
		DefaultSavingsRate:        decimal.RequireFromString("0.15"),
		LargeTransactionThreshold: decimal.RequireFromString("20000"),
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	snapshots := store.NewSnapshotStore(logger, filepath.Join(t.TempDir(), "bank_data.json"))
	return New(logger, snapshots, testOptions())
}

func try(amount float64) money.Money {
	return money.FromFloat(amount, "TRY")
}

func TestRegistry_CreateAccount(t *testing.T) {
	t.Run("SequentialIDs", func(t *testing.T) {
		reg := newTestRegistry(t)

		first, err := reg.CreateAccount(CreateAccountParams{OwnerName: "Sinem Onar"})
		require.NoError(t, err)
		second, err := reg.CreateAccount(CreateAccountParams{OwnerName: "Deniz Kaya"})
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.ID())
		assert.Equal(t, int64(2), second.ID())
	})

	t.Run("InitialBalanceIsALedgerEntry", func(t *testing.T) {
		reg := newTestRegistry(t)

		acc, err := reg.CreateAccount(CreateAccountParams{
			OwnerName:      "Sinem Onar",
			InitialBalance: decimal.NewFromInt(1000),
		})
		require.NoError(t, err)

		assert.True(t, acc.Balance().Equal(try(1000)))
		require.Len(t, acc.Transactions(), 1)
		assert.Equal(t, "Initial deposit", acc.Transactions()[0].Description)
		assert.True(t, acc.Balance().Equal(acc.RunningBalance()))
	})

	t.Run("VariantConstruction", func(t *testing.T) {
		reg := newTestRegistry(t)

		rate := decimal.RequireFromString("0.05")
		savings, err := reg.CreateAccount(CreateAccountParams{
			OwnerName:    "Sinem Onar",
			Kind:         account.KindSavings,
			InterestRate: &rate,
		})
		require.NoError(t, err)
		assert.Equal(t, account.KindSavings, savings.Kind())
		assert.True(t, savings.InterestRate().Equal(rate))

		checking, err := reg.CreateAccount(CreateAccountParams{
			OwnerName:      "Sinem Onar",
			Kind:           account.KindChecking,
			OverdraftLimit: decimal.NewFromInt(200),
		})
		require.NoError(t, err)
		assert.Equal(t, account.KindChecking, checking.Kind())
		assert.True(t, checking.OverdraftLimit().Equal(try(200)))
	})

	t.Run("SavingsDefaultRate", func(t *testing.T) {
		reg := newTestRegistry(t)

		savings, err := reg.CreateAccount(CreateAccountParams{
			OwnerName: "Sinem Onar",
			Kind:      account.KindSavings,
		})
		require.NoError(t, err)
		assert.True(t, savings.InterestRate().Equal(decimal.RequireFromString("0.15")))
	})

	t.Run("CustomerReusedByIdentity", func(t *testing.T) {
		reg := newTestRegistry(t)

		first, err := reg.CreateAccount(CreateAccountParams{OwnerName: "Sinem Onar", TaxID: "12345678901"})
		require.NoError(t, err)
		second, err := reg.CreateAccount(CreateAccountParams{OwnerName: "sinem onar", TaxID: "12345678901"})
		require.NoError(t, err)

		assert.Same(t, first.Owner(), second.Owner())
		assert.Equal(t, []int64{first.ID(), second.ID()}, first.Owner().AccountIDs)
		assert.Len(t, reg.Customers(), 1)
	})

	t.Run("DifferentTaxIDCreatesNewCustomer", func(t *testing.T) {
		reg := newTestRegistry(t)

		first, err := reg.CreateAccount(CreateAccountParams{OwnerName: "Sinem Onar", TaxID: "12345678901"})
		require.NoError(t, err)
		second, err := reg.CreateAccount(CreateAccountParams{OwnerName: "Sinem Onar", TaxID: "10987654321"})
		require.NoError(t, err)

		assert.NotSame(t, first.Owner(), second.Owner())
		assert.Len(t, reg.Customers(), 2)
	})

	t.Run("RejectsNegativeInitialBalance", func(t *testing.T) {
		reg := newTestRegistry(t)
		_, err := reg.CreateAccount(CreateAccountParams{
			OwnerName:      "Sinem Onar",
			InitialBalance: decimal.NewFromInt(-100),
		})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("RejectsEmptyOwner", func(t *testing.T) {
		reg := newTestRegistry(t)
		_, err := reg.CreateAccount(CreateAccountParams{})
		require.Error(t, err)
	})
}

func TestRegistry_Account(t *testing.T) {
	reg := newTestRegistry(t)
	created, err := reg.CreateAccount(CreateAccountParams{OwnerName: "Sinem Onar"})
	require.NoError(t, err)

	found, err := reg.Account(created.ID())
	require.NoError(t, err)
	assert.Same(t, created, found)

	_, err = reg.Account(99)
	assert.ErrorIs(t, err, ErrAccountNotFound{})
	assert.ErrorIs(t, err, ErrAccountNotFound{AccountID: 99})
}

func TestRegistry_FindByOwner(t *testing.T) {
	reg := newTestRegistry(t)
	for _, name := range []string{"Sinem Onar", "Deniz Kaya", "Sinem Demir"} {
		_, err := reg.CreateAccount(CreateAccountParams{OwnerName: name})
		require.NoError(t, err)
	}

	t.Run("CaseInsensitiveSubstring", func(t *testing.T) {
		matches := reg.FindByOwner("SINEM")
		require.Len(t, matches, 2)
		// Registry insertion order
		assert.Equal(t, "Sinem Onar", matches[0].Owner().Name)
		assert.Equal(t, "Sinem Demir", matches[1].Owner().Name)
	})

	t.Run("NoMatchIsEmpty", func(t *testing.T) {
		assert.Empty(t, reg.FindByOwner("nobody"))
	})

	t.Run("EmptyQueryMatchesAll", func(t *testing.T) {
		assert.Len(t, reg.FindByOwner(""), 3)
	})
}

func TestRegistry_TopN(t *testing.T) {
	reg := newTestRegistry(t)
	for _, balance := range []int64{500, 5000, 1500, 1050} {
		_, err := reg.CreateAccount(CreateAccountParams{
			OwnerName:      "Sinem Onar",
			InitialBalance: decimal.NewFromInt(balance),
		})
		require.NoError(t, err)
	}

	t.Run("DescendingTopThree", func(t *testing.T) {
		top, err := reg.TopN(3)
		require.NoError(t, err)
		require.Len(t, top, 3)

		got := make([]string, 0, 3)
		for _, acc := range top {
			got = append(got, acc.Balance().Amount().String())
		}
		assert.Equal(t, []string{"5000", "1500", "1050"}, got)
	})

	t.Run("NLargerThanCountReturnsAll", func(t *testing.T) {
		top, err := reg.TopN(10)
		require.NoError(t, err)
		assert.Len(t, top, 4)
	})

	t.Run("ZeroReturnsNothing", func(t *testing.T) {
		top, err := reg.TopN(0)
		require.NoError(t, err)
		assert.Empty(t, top)
	})

	t.Run("NegativeNIsInvalid", func(t *testing.T) {
		_, err := reg.TopN(-1)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("TiesKeepInsertionOrder", func(t *testing.T) {
		tied := newTestRegistry(t)
		a, err := tied.CreateAccount(CreateAccountParams{OwnerName: "First", InitialBalance: decimal.NewFromInt(100)})
		require.NoError(t, err)
		b, err := tied.CreateAccount(CreateAccountParams{OwnerName: "Second", InitialBalance: decimal.NewFromInt(100)})
		require.NoError(t, err)

		top, err := tied.TopN(2)
		require.NoError(t, err)
		assert.Equal(t, a.ID(), top[0].ID())
		assert.Equal(t, b.ID(), top[1].ID())
	})
}

func TestRegistry_DetectFraud(t *testing.T) {
	reg := newTestRegistry(t)
	acc, err := reg.CreateAccount(CreateAccountParams{
		OwnerName:      "Sinem Onar",
		InitialBalance: decimal.NewFromInt(100000),
	})
	require.NoError(t, err)

	t.Run("LargeTransactionAlert", func(t *testing.T) {
		assert.Equal(t, FraudLargeTransaction, reg.DetectFraud(acc, try(25000)))
	})

	t.Run("ThresholdItselfIsSafe", func(t *testing.T) {
		assert.Equal(t, FraudSafe, reg.DetectFraud(acc, try(20000)))
	})

	t.Run("SafeForSmallAmountOnDepositOnlyAccount", func(t *testing.T) {
		assert.Equal(t, FraudSafe, reg.DetectFraud(acc, try(100)))
	})

	t.Run("FrequentWithdrawalAlert", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.NoError(t, acc.Withdraw(try(10), ""))
		}
		assert.Equal(t, FraudFrequentWithdrawal, reg.DetectFraud(acc, try(100)))

		// A deposit breaks the streak
		require.NoError(t, acc.Deposit(try(10), ""))
		assert.Equal(t, FraudSafe, reg.DetectFraud(acc, try(100)))
	})

	t.Run("LargeAmountWinsOverFrequency", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.NoError(t, acc.Withdraw(try(10), ""))
		}
		assert.Equal(t, FraudLargeTransaction, reg.DetectFraud(acc, try(25000)))
	})
}

func TestRegistry_PersistRestore(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		path := filepath.Join(t.TempDir(), "bank_data.json")
		snapshots := store.NewSnapshotStore(logger, path)

		source := New(logger, snapshots, testOptions())
		rate := decimal.RequireFromString("0.05")
		savings, err := source.CreateAccount(CreateAccountParams{
			OwnerName:      "Sinem Onar",
			TaxID:          "12345678901",
			Kind:           account.KindSavings,
			Currency:       "TRY",
			InitialBalance: decimal.NewFromInt(1000),
			InterestRate:   &rate,
		})
		require.NoError(t, err)
		_, err = savings.ApplyInterest()
		require.NoError(t, err)

		checking, err := source.CreateAccount(CreateAccountParams{
			OwnerName:      "Deniz Kaya",
			Kind:           account.KindChecking,
			OverdraftLimit: decimal.NewFromInt(200),
			InitialBalance: decimal.NewFromInt(500),
		})
		require.NoError(t, err)
		require.NoError(t, checking.Withdraw(try(650), ""))
		require.NoError(t, source.Persist())

		restored := New(logger, store.NewSnapshotStore(logger, path), testOptions())
		require.NoError(t, restored.Restore())

		accounts := restored.Accounts()
		require.Len(t, accounts, 2)

		restoredSavings, err := restored.Account(savings.ID())
		require.NoError(t, err)
		assert.Equal(t, account.KindSavings, restoredSavings.Kind())
		assert.Equal(t, "Sinem Onar", restoredSavings.Owner().Name)
		assert.True(t, restoredSavings.Balance().Equal(try(1050)))
		assert.True(t, restoredSavings.InterestRate().Equal(rate))
		assert.Len(t, restoredSavings.Transactions(), 2)
		assert.True(t, restoredSavings.Balance().Equal(restoredSavings.RunningBalance()))

		restoredChecking, err := restored.Account(checking.ID())
		require.NoError(t, err)
		assert.Equal(t, account.KindChecking, restoredChecking.Kind())
		assert.True(t, restoredChecking.Balance().Equal(try(-150)))
		assert.True(t, restoredChecking.OverdraftLimit().Equal(try(200)))

		// Id allocation continues past restored accounts
		next, err := restored.CreateAccount(CreateAccountParams{OwnerName: "Ayşe Yılmaz"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), next.ID())
	})

	t.Run("MissingFileIsColdStart", func(t *testing.T) {
		reg := newTestRegistry(t)
		require.NoError(t, reg.Restore())
		assert.Empty(t, reg.Accounts())
	})

	t.Run("CorruptFileIsColdStart", func(t *testing.T) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		path := filepath.Join(t.TempDir(), "bank_data.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		reg := New(logger, store.NewSnapshotStore(logger, path), testOptions())
		require.NoError(t, reg.Restore())
		assert.Empty(t, reg.Accounts())
	})

	t.Run("LegacyMinimalRecords", func(t *testing.T) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		path := filepath.Join(t.TempDir(), "bank_data.json")
		legacy := `{"accounts": [{"id": 1, "owner": "Sinem Onar", "balance": "750"}]}`
		require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

		reg := New(logger, store.NewSnapshotStore(logger, path), testOptions())
		require.NoError(t, reg.Restore())

		acc, err := reg.Account(1)
		require.NoError(t, err)
		assert.Equal(t, account.KindStandard, acc.Kind())
		assert.Equal(t, "TRY", acc.Currency())
		assert.Equal(t, "Sinem Onar", acc.Owner().Name)
		assert.True(t, acc.Balance().Equal(try(750)))
		assert.Empty(t, acc.Transactions())
	})

	t.Run("WriteFailureIsSurfaced", func(t *testing.T) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		dir := t.TempDir()
		// Point the store at a path whose parent is a file, so the temp
		// file cannot be created
		blocked := filepath.Join(dir, "blocked")
		require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

		reg := New(logger, store.NewSnapshotStore(logger, filepath.Join(blocked, "bank_data.json")), testOptions())
		assert.Error(t, reg.Persist())
	})
}

func TestRegistry_PersistUnderConcurrentMutation(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	snapshots := store.NewSnapshotStore(logger, filepath.Join(t.TempDir(), "bank_data.json"))
	reg := New(logger, snapshots, testOptions())

	acc, err := reg.CreateAccount(CreateAccountParams{
		OwnerName:      "Sinem Onar",
		InitialBalance: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	// Hammer the account while persisting: every written record must carry a
	// balance equal to the fold of its own history, whatever interleaving the
	// scheduler picks.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_ = acc.Deposit(try(1), "")
			_ = acc.Withdraw(try(1), "")
		}
	}()

	for i := 0; i < 50; i++ {
		require.NoError(t, reg.Persist())

		snap, err := snapshots.Load()
		require.NoError(t, err)
		for _, rec := range snap.Accounts {
			fold := decimal.Zero
			for _, tx := range rec.History {
				fold = fold.Add(tx.Effect().Amount())
			}
			require.True(t, rec.Balance.Equal(fold),
				"persisted balance %s diverged from history fold %s", rec.Balance, fold)
		}
	}
	<-done
}
