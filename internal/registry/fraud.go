package registry

import (
	"github.com/sinembank-ledger/internal/domain/account"
	"github.com/sinembank-ledger/internal/domain/ledger"
	"github.com/sinembank-ledger/internal/domain/money"
)

// FraudAssessment is the outcome of the fraud heuristic
type FraudAssessment string

const (
	FraudSafe               FraudAssessment = "SAFE"
	FraudLargeTransaction   FraudAssessment = "LARGE_TRANSACTION_ALERT"
	FraudFrequentWithdrawal FraudAssessment = "FREQUENT_WITHDRAWAL_ALERT"
)

// frequentWithdrawalWindow is how many trailing transactions must all be
// withdrawals to raise the frequency alert
const frequentWithdrawalWindow = 3

// DetectFraud applies the fraud heuristic to a prospective transaction:
// an amount above the large-transaction threshold raises a large-transaction
// alert, and an account whose most recent three transactions are all
// withdrawals raises a frequency alert. This is a fixed rule-based check,
// not a statistical model; it flags activity for review and decides nothing.
func (r *Registry) DetectFraud(acc *account.Account, amount money.Money) FraudAssessment {
	if amount.Amount().GreaterThan(r.opts.LargeTransactionThreshold) {
		return FraudLargeTransaction
	}

	history := acc.Transactions()
	if len(history) >= frequentWithdrawalWindow {
		recent := history[len(history)-frequentWithdrawalWindow:]
		allWithdrawals := true
		for _, t := range recent {
			if t.Kind != ledger.KindWithdrawal {
				allWithdrawals = false
				break
			}
		}
		if allWithdrawals {
			return FraudFrequentWithdrawal
		}
	}
	return FraudSafe
}
