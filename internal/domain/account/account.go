// Package account implements the polymorphic bank account: a single Account
// type whose withdrawal policy and interest behavior are selected by a kind
// tag (standard, savings, checking). Policy data lives next to the tag:
// savings accounts carry an interest rate, checking accounts an overdraft
// limit.
//
// The transaction history is the source of truth; the cached balance is a
// projection of it and the two never diverge. Every mutating operation runs
// inside the account's mutex so the policy check and the mutation form one
// critical section.
package account

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sinembank-ledger/internal/domain/customer"
	"github.com/sinembank-ledger/internal/domain/ledger"
	"github.com/sinembank-ledger/internal/domain/money"
)

// Kind selects the account variant and with it the withdrawal policy
type Kind string

const (
	KindStandard Kind = "STANDARD"
	KindSavings  Kind = "SAVINGS"
	KindChecking Kind = "CHECKING"
)

// ParseKind maps a textual kind to a Kind constant
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(s)) {
	case KindStandard:
		return KindStandard, nil
	case KindSavings:
		return KindSavings, nil
	case KindChecking:
		return KindChecking, nil
	default:
		return "", ErrInvalidKind
	}
}

// Default transaction descriptions
const (
	descDeposit    = "Deposit"
	descWithdrawal = "Withdrawal"
	descInterest   = "Accrued interest income"
)

// Account is a bank account with an append-only transaction history.
// The owner is a non-owning reference: the customer aggregates accounts
// without controlling their lifetime.
type Account struct {
	mu sync.Mutex

	id       int64
	owner    *customer.Customer
	kind     Kind
	currency string

	balance money.Money
	history []ledger.Transaction

	interestRate   decimal.Decimal // savings only
	overdraftLimit money.Money     // checking only
}

// NewStandard creates a standard account: no interest, no overdraft
func NewStandard(id int64, owner *customer.Customer, currency string) (*Account, error) {
	return newAccount(id, owner, KindStandard, currency)
}

// NewSavings creates a savings account accruing interest at the given rate
func NewSavings(id int64, owner *customer.Customer, currency string, rate decimal.Decimal) (*Account, error) {
	a, err := newAccount(id, owner, KindSavings, currency)
	if err != nil {
		return nil, err
	}
	a.interestRate = rate
	return a, nil
}

// NewChecking creates a checking account whose balance may go negative down
// to -limit
func NewChecking(id int64, owner *customer.Customer, currency string, limit money.Money) (*Account, error) {
	if limit.Currency() != currency || limit.IsNegative() {
		return nil, ErrInvalidAmount
	}
	a, err := newAccount(id, owner, KindChecking, currency)
	if err != nil {
		return nil, err
	}
	a.overdraftLimit = limit
	return a, nil
}

func newAccount(id int64, owner *customer.Customer, kind Kind, currency string) (*Account, error) {
	if owner == nil {
		return nil, ErrEmptyOwner
	}
	return &Account{
		id:       id,
		owner:    owner,
		kind:     kind,
		currency: currency,
		balance:  money.Zero(currency),
	}, nil
}

// Rehydrate rebuilds an account from persisted state. The balance is taken
// as-is together with its history; RunningBalance lets callers verify the two
// still agree.
func Rehydrate(id int64, owner *customer.Customer, kind Kind, currency string,
	balance money.Money, history []ledger.Transaction,
	rate decimal.Decimal, limit money.Money) (*Account, error) {

	if owner == nil {
		return nil, ErrEmptyOwner
	}
	switch kind {
	case KindStandard, KindSavings, KindChecking:
	default:
		return nil, ErrInvalidKind
	}
	return &Account{
		id:             id,
		owner:          owner,
		kind:           kind,
		currency:       currency,
		balance:        balance,
		history:        append([]ledger.Transaction(nil), history...),
		interestRate:   rate,
		overdraftLimit: limit,
	}, nil
}

// ID returns the account id
func (a *Account) ID() int64 { return a.id }

// Owner returns the owning customer reference
func (a *Account) Owner() *customer.Customer { return a.owner }

// Kind returns the account variant tag
func (a *Account) Kind() Kind { return a.kind }

// Currency returns the account currency code
func (a *Account) Currency() string { return a.currency }

// InterestRate returns the savings rate; zero for other kinds
func (a *Account) InterestRate() decimal.Decimal { return a.interestRate }

// OverdraftLimit returns the checking overdraft limit; the zero value for
// other kinds
func (a *Account) OverdraftLimit() money.Money { return a.overdraftLimit }

// Balance returns the cached balance
func (a *Account) Balance() money.Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Deposit adds a positive amount in the account currency to the balance and
// appends a deposit transaction. A rejected deposit leaves balance and
// history untouched.
func (a *Account) Deposit(amount money.Money, description string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.credit(ledger.KindDeposit, amount, description, descDeposit)
}

// credit applies a balance-increasing transaction. Caller holds the mutex.
func (a *Account) credit(kind ledger.Kind, amount money.Money, description, fallback string) error {
	if !amount.IsPositive() || amount.Currency() != a.currency {
		return ErrInvalidAmount
	}
	if description == "" {
		description = fallback
	}

	newBalance, err := a.balance.Add(amount)
	if err != nil {
		return ErrInvalidAmount
	}
	a.balance = newBalance
	a.history = append(a.history, ledger.New(kind, amount, description))
	return nil
}

// Withdraw subtracts a positive amount from the balance under the variant's
// policy and appends a withdrawal transaction. Standard and savings accounts
// never go below zero; checking accounts may go down to -overdraft limit.
// A rejected withdrawal leaves balance and history untouched.
func (a *Account) Withdraw(amount money.Money, description string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !amount.IsPositive() || amount.Currency() != a.currency {
		return ErrInvalidAmount
	}
	if description == "" {
		description = descWithdrawal
	}

	newBalance, err := a.balance.Sub(amount)
	if err != nil {
		return ErrInvalidAmount
	}

	switch a.kind {
	case KindChecking:
		below, err := newBalance.Cmp(a.overdraftLimit.Neg())
		if err != nil {
			return ErrInvalidAmount
		}
		if below < 0 {
			return ErrOverdraftExceeded{
				Balance:        a.balance,
				OverdraftLimit: a.overdraftLimit,
				Requested:      amount,
			}
		}
	default:
		if newBalance.IsNegative() {
			return ErrInsufficientFunds{Balance: a.balance, Requested: amount}
		}
	}

	a.balance = newBalance
	a.history = append(a.history, ledger.New(ledger.KindWithdrawal, amount, description))
	return nil
}

// ApplyInterest accrues one interest period on a savings account: it deposits
// balance * rate as an interest transaction and returns the accrued amount.
// Each call compounds again; accrual frequency is the caller's concern.
// A non-positive interest amount accrues nothing.
func (a *Account) ApplyInterest() (money.Money, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.kind != KindSavings {
		return money.Zero(a.currency), ErrNotInterestBearing
	}

	interest := a.balance.Mul(a.interestRate)
	if !interest.IsPositive() {
		return money.Zero(a.currency), nil
	}
	if err := a.credit(ledger.KindInterest, interest, descInterest, descInterest); err != nil {
		return money.Zero(a.currency), err
	}
	return interest, nil
}

// ProjectedInterest returns the compound-interest projection over the given
// number of years, balance * ((1+rate)^years - 1), without mutating state.
// Non-savings accounts and non-positive horizons project zero.
func (a *Account) ProjectedInterest(years int) money.Money {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.kind != KindSavings || years <= 0 {
		return money.Zero(a.currency)
	}
	one := decimal.NewFromInt(1)
	factor := one.Add(a.interestRate).Pow(decimal.NewFromInt(int64(years))).Sub(one)
	return a.balance.Mul(factor)
}

// RunningBalance recomputes the balance by folding the history: deposits and
// interest add, withdrawals subtract. It must always equal the cached balance.
func (a *Account) RunningBalance() money.Money {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := money.Zero(a.currency)
	for _, t := range a.history {
		// Effects share the account currency, the add cannot fail
		total, _ = total.Add(t.Effect())
	}
	return total
}

// Search returns the transactions whose description contains the keyword,
// case-insensitively, in history order. No match is an empty result, not an
// error.
func (a *Account) Search(keyword string) []ledger.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()

	needle := strings.ToLower(keyword)
	var matches []ledger.Transaction
	for _, t := range a.history {
		if strings.Contains(strings.ToLower(t.Description), needle) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Transactions returns a copy of the full history in insertion order
func (a *Account) Transactions() []ledger.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ledger.Transaction(nil), a.history...)
}

// SnapshotState returns the balance and a copy of the history from a single
// critical section. Callers serializing the account must use this instead of
// separate Balance and Transactions calls, otherwise a mutation landing
// between the two reads yields a balance torn from its own ledger.
func (a *Account) SnapshotState() (money.Money, []ledger.Transaction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance, append([]ledger.Transaction(nil), a.history...)
}

// String renders a one-line report entry for the account
func (a *Account) String() string {
	return fmt.Sprintf("[%d] %s | %s | %s", a.id, a.owner.Name, a.kind, a.Balance())
}
