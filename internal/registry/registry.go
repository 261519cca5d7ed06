// Package registry implements the bank registry: it owns the account set and
// the account id space, runs cross-account analytics, and snapshots state to
// the flat store. The registry never touches account internals directly,
// every mutation goes through the account's own operations.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sinembank-ledger/internal/domain/account"
	"github.com/sinembank-ledger/internal/domain/customer"
	"github.com/sinembank-ledger/internal/domain/money"
	"github.com/sinembank-ledger/internal/platform/store"
)

// ErrInvalidArgument indicates a malformed query parameter such as a
// negative top-N count
var ErrInvalidArgument = errors.New("invalid argument")

// ErrAccountNotFound indicates a missing account
type ErrAccountNotFound struct {
	AccountID int64
}

func (e ErrAccountNotFound) Error() string {
	return fmt.Sprintf("account not found: %d", e.AccountID)
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.AccountID == 0 || t.AccountID == e.AccountID
}

// Options configures registry policy
type Options struct {
	// BaseCurrency is the currency used when a request does not name one
	BaseCurrency string
	// DefaultSavingsRate applies to savings accounts created without a rate
	DefaultSavingsRate decimal.Decimal
	// LargeTransactionThreshold is the fraud-heuristic cutoff in currency units
	LargeTransactionThreshold decimal.Decimal
}

// Registry owns the authoritative account set. All exported methods are safe
// for concurrent use: the registry map is guarded by an RWMutex, per-account
// state by the account's own mutex.
type Registry struct {
	mu     sync.RWMutex
	logger *slog.Logger
	store  *store.SnapshotStore
	opts   Options

	accounts      map[int64]*account.Account
	order         []int64 // account ids in insertion order
	customers     map[int64]*customer.Customer
	customerOrder []int64

	nextAccountID  int64
	nextCustomerID int64
}

// New creates an empty registry backed by the given snapshot store
func New(logger *slog.Logger, snapshots *store.SnapshotStore, opts Options) *Registry {
	return &Registry{
		logger:         logger,
		store:          snapshots,
		opts:           opts,
		accounts:       make(map[int64]*account.Account),
		customers:      make(map[int64]*customer.Customer),
		nextAccountID:  1,
		nextCustomerID: 1,
	}
}

// CreateAccountParams describes a new account request
type CreateAccountParams struct {
	OwnerName      string
	TaxID          string
	Kind           account.Kind
	Currency       string          // empty means the registry base currency
	InitialBalance decimal.Decimal // non-negative; deposited as the first transaction
	InterestRate   *decimal.Decimal
	OverdraftLimit decimal.Decimal
}

// CreateAccount allocates the next sequential id, looks up or creates the
// owning customer, builds the requested variant, registers it and snapshots
// the registry. A snapshot write failure is returned alongside the already
// registered account.
func (r *Registry) CreateAccount(params CreateAccountParams) (*account.Account, error) {
	if params.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", ErrInvalidArgument)
	}
	currency := params.Currency
	if currency == "" {
		currency = r.opts.BaseCurrency
	}

	r.mu.Lock()
	owner, err := r.lookupOrCreateCustomerLocked(params.OwnerName, params.TaxID)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	id := r.nextAccountID
	acc, err := r.buildAccount(id, owner, currency, params)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.nextAccountID++
	r.accounts[id] = acc
	r.order = append(r.order, id)
	owner.AddAccount(id)
	r.mu.Unlock()

	if params.InitialBalance.IsPositive() {
		if err := acc.Deposit(money.New(params.InitialBalance, currency), "Initial deposit"); err != nil {
			return nil, err
		}
	}

	r.logger.Info("account created",
		"account_id", id, "owner", owner.Name, "kind", string(acc.Kind()), "currency", currency)

	if err := r.Persist(); err != nil {
		return acc, err
	}
	return acc, nil
}

func (r *Registry) buildAccount(id int64, owner *customer.Customer, currency string, params CreateAccountParams) (*account.Account, error) {
	switch params.Kind {
	case account.KindStandard, "":
		return account.NewStandard(id, owner, currency)
	case account.KindSavings:
		rate := r.opts.DefaultSavingsRate
		if params.InterestRate != nil {
			rate = *params.InterestRate
		}
		return account.NewSavings(id, owner, currency, rate)
	case account.KindChecking:
		return account.NewChecking(id, owner, currency, money.New(params.OverdraftLimit, currency))
	default:
		return nil, account.ErrInvalidKind
	}
}

// lookupOrCreateCustomerLocked reuses an existing customer with the same
// normalized name and tax id, creating one otherwise. Caller holds the write
// lock.
func (r *Registry) lookupOrCreateCustomerLocked(name, taxID string) (*customer.Customer, error) {
	if name == "" {
		return nil, customer.ErrEmptyName
	}
	for _, id := range r.customerOrder {
		c := r.customers[id]
		if strings.EqualFold(c.Name, name) && c.TaxID == taxID {
			return c, nil
		}
	}

	c, err := customer.New(r.nextCustomerID, name, taxID)
	if err != nil {
		return nil, err
	}
	r.nextCustomerID++
	r.customers[c.ID] = c
	r.customerOrder = append(r.customerOrder, c.ID)
	return c, nil
}

// Account returns the account with the given id
func (r *Registry) Account(id int64) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound{AccountID: id}
	}
	return acc, nil
}

// Accounts returns all accounts in insertion order
func (r *Registry) Accounts() []*account.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.accountsLocked()
}

func (r *Registry) accountsLocked() []*account.Account {
	accounts := make([]*account.Account, 0, len(r.order))
	for _, id := range r.order {
		accounts = append(accounts, r.accounts[id])
	}
	return accounts
}

// Customers returns all customers in insertion order
func (r *Registry) Customers() []*customer.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customers := make([]*customer.Customer, 0, len(r.customerOrder))
	for _, id := range r.customerOrder {
		customers = append(customers, r.customers[id])
	}
	return customers
}

// FindByOwner returns the accounts whose owner name contains the query,
// case-insensitively, in insertion order
func (r *Registry) FindByOwner(query string) []*account.Account {
	needle := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []*account.Account
	for _, id := range r.order {
		acc := r.accounts[id]
		if strings.Contains(strings.ToLower(acc.Owner().Name), needle) {
			matches = append(matches, acc)
		}
	}
	return matches
}

// TopN returns the n accounts with the largest balance in descending order.
// The sort is stable, ties keep insertion order. n larger than the account
// count returns all accounts; a negative n is an invalid argument.
func (r *Registry) TopN(n int) ([]*account.Account, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: top-n count cannot be negative", ErrInvalidArgument)
	}

	r.mu.RLock()
	ranked := r.accountsLocked()
	r.mu.RUnlock()

	// Balances may span currencies; ranking compares raw amounts
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Balance().Amount().GreaterThan(ranked[j].Balance().Amount())
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}
