// Package ledger defines the immutable transaction record that makes up an
// account's history. The history is the authoritative record of balance
// changes; the account balance is a cached projection of it.
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/sinembank-ledger/internal/domain/money"
)

// Kind defines the possible transaction kinds
type Kind string

const (
	KindDeposit    Kind = "DEPOSIT"
	KindWithdrawal Kind = "WITHDRAWAL"
	KindInterest   Kind = "INTEREST"
)

// Transaction is an immutable record of one balance-affecting event. It is
// owned exclusively by the account that created it and never re-parented.
// The amount is always positive; the kind determines the sign of its effect.
type Transaction struct {
	ID          uuid.UUID   `json:"id"`
	Kind        Kind        `json:"kind"`
	Amount      money.Money `json:"amount"`
	Description string      `json:"description"`
	Timestamp   time.Time   `json:"timestamp"`
}

// New creates a transaction stamped with the current time
func New(kind Kind, amount money.Money, description string) Transaction {
	return Transaction{
		ID:          uuid.New(),
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Timestamp:   time.Now(),
	}
}

// Effect returns the signed contribution of the transaction to the balance:
// deposits and interest add, withdrawals subtract.
func (t Transaction) Effect() money.Money {
	if t.Kind == KindWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}
