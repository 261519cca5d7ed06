package registry

import (
	"fmt"

	"github.com/sinembank-ledger/internal/domain/account"
	"github.com/sinembank-ledger/internal/domain/customer"
	"github.com/sinembank-ledger/internal/domain/money"
	"github.com/sinembank-ledger/internal/platform/store"
)

// Persist writes the full registry state to the snapshot store. The snapshot
// is assembled under the read lock and written after releasing it, so
// concurrent readers never observe a half-updated account and a slow disk
// never blocks the registry.
func (r *Registry) Persist() error {
	r.mu.RLock()
	snap := store.Snapshot{
		NextAccountID:  r.nextAccountID,
		NextCustomerID: r.nextCustomerID,
	}
	for _, id := range r.customerOrder {
		c := r.customers[id]
		snap.Customers = append(snap.Customers, store.CustomerRecord{
			ID:         c.ID,
			Name:       c.Name,
			TaxID:      c.TaxID,
			AccountIDs: append([]int64(nil), c.AccountIDs...),
		})
	}
	for _, id := range r.order {
		acc := r.accounts[id]
		// Balance and history must come from one critical section so a
		// concurrent mutation cannot tear the persisted record
		balance, history := acc.SnapshotState()
		snap.Accounts = append(snap.Accounts, store.AccountRecord{
			ID:             acc.ID(),
			Owner:          acc.Owner().Name,
			OwnerID:        acc.Owner().ID,
			Kind:           string(acc.Kind()),
			Currency:       acc.Currency(),
			Balance:        balance.Amount(),
			InterestRate:   acc.InterestRate(),
			OverdraftLimit: acc.OverdraftLimit().Amount(),
			History:        history,
		})
	}
	r.mu.RUnlock()

	if err := r.store.Save(snap); err != nil {
		return fmt.Errorf("failed to persist registry: %w", err)
	}
	return nil
}

// Restore replaces the registry state with the persisted snapshot. A missing
// or malformed snapshot is a cold start: the registry comes up empty and no
// error is returned. Records written by the legacy minimal format carry only
// id, owner and balance; they restore as standard accounts in the base
// currency with an empty history.
func (r *Registry) Restore() error {
	snap, err := r.store.Load()
	if err != nil {
		r.logger.Warn("snapshot unreadable, starting with an empty registry", "error", err)
		snap = store.Snapshot{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts = make(map[int64]*account.Account)
	r.order = nil
	r.customers = make(map[int64]*customer.Customer)
	r.customerOrder = nil
	r.nextAccountID = 1
	r.nextCustomerID = 1

	for _, rec := range snap.Customers {
		c := &customer.Customer{
			ID:         rec.ID,
			Name:       rec.Name,
			TaxID:      rec.TaxID,
			AccountIDs: append([]int64(nil), rec.AccountIDs...),
		}
		r.customers[c.ID] = c
		r.customerOrder = append(r.customerOrder, c.ID)
		if c.ID >= r.nextCustomerID {
			r.nextCustomerID = c.ID + 1
		}
	}

	for _, rec := range snap.Accounts {
		acc, err := r.restoreAccount(rec)
		if err != nil {
			r.logger.Warn("skipping unrestorable account record", "account_id", rec.ID, "error", err)
			continue
		}
		r.accounts[acc.ID()] = acc
		r.order = append(r.order, acc.ID())
		acc.Owner().AddAccount(acc.ID())
		if acc.ID() >= r.nextAccountID {
			r.nextAccountID = acc.ID() + 1
		}
	}

	if snap.NextAccountID > r.nextAccountID {
		r.nextAccountID = snap.NextAccountID
	}
	if snap.NextCustomerID > r.nextCustomerID {
		r.nextCustomerID = snap.NextCustomerID
	}

	r.logger.Info("registry restored",
		"accounts", len(r.accounts), "customers", len(r.customers), "path", r.store.Path())
	return nil
}

// restoreAccount rebuilds one account record, filling legacy-format gaps
// with defaults. Caller holds the write lock.
func (r *Registry) restoreAccount(rec store.AccountRecord) (*account.Account, error) {
	currency := rec.Currency
	if currency == "" {
		currency = r.opts.BaseCurrency
	}

	kind := account.KindStandard
	if rec.Kind != "" {
		parsed, err := account.ParseKind(rec.Kind)
		if err != nil {
			return nil, err
		}
		kind = parsed
	}

	owner := r.customers[rec.OwnerID]
	if owner == nil {
		// Legacy records predate the customer table
		var err error
		owner, err = r.lookupOrCreateCustomerLocked(rec.Owner, "")
		if err != nil {
			return nil, err
		}
	}

	return account.Rehydrate(
		rec.ID, owner, kind, currency,
		money.New(rec.Balance, currency),
		rec.History,
		rec.InterestRate,
		money.New(rec.OverdraftLimit, currency),
	)
}
