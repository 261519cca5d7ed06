package account

import (
	"errors"
	"fmt"

	"github.com/sinembank-ledger/internal/domain/money"
)

// Common errors
var (
	ErrInvalidAmount      = errors.New("amount must be positive and in the account currency")
	ErrEmptyOwner         = errors.New("account owner cannot be empty")
	ErrNotInterestBearing = errors.New("account does not accrue interest")
	ErrInvalidKind        = errors.New("invalid account kind")
)

// ErrInsufficientFunds indicates a withdrawal exceeding the balance of a
// non-overdraft account. It carries the state the caller needs to report.
type ErrInsufficientFunds struct {
	Balance   money.Money
	Requested money.Money
}

func (e ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s, requested %s", e.Balance, e.Requested)
}

// Is implements the errors.Is interface for ErrInsufficientFunds
func (e ErrInsufficientFunds) Is(target error) bool {
	_, ok := target.(ErrInsufficientFunds)
	return ok
}

// ErrOverdraftExceeded indicates a checking withdrawal that would push the
// balance below the overdraft limit
type ErrOverdraftExceeded struct {
	Balance        money.Money
	OverdraftLimit money.Money
	Requested      money.Money
}

func (e ErrOverdraftExceeded) Error() string {
	return fmt.Sprintf("overdraft limit exceeded: balance %s, limit %s, requested %s",
		e.Balance, e.OverdraftLimit, e.Requested)
}

// Is implements the errors.Is interface for ErrOverdraftExceeded
func (e ErrOverdraftExceeded) Is(target error) bool {
	_, ok := target.(ErrOverdraftExceeded)
	return ok
}
