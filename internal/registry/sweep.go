package registry

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/sinembank-ledger/internal/domain/account"
)

// SweepInterest applies one interest period to every savings account through
// a bounded worker pool. Per-account locking makes concurrent accrual safe;
// the registry is snapshotted once afterwards. Returns the number of accounts
// that accrued interest.
func (r *Registry) SweepInterest(ctx context.Context, workers int) (int, error) {
	if workers <= 0 {
		workers = 1
	}

	r.mu.RLock()
	var savings []*account.Account
	for _, id := range r.order {
		if acc := r.accounts[id]; acc.Kind() == account.KindSavings {
			savings = append(savings, acc)
		}
	}
	r.mu.RUnlock()

	if len(savings) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return 0, err
	}
	defer pool.Release()

	var (
		wg      sync.WaitGroup
		accrued atomic.Int64
	)
	for _, acc := range savings {
		if err := ctx.Err(); err != nil {
			break
		}

		acc := acc
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			interest, err := acc.ApplyInterest()
			if err != nil {
				r.logger.Error("interest accrual failed", "account_id", acc.ID(), "error", err)
				return
			}
			if interest.IsPositive() {
				accrued.Add(1)
				r.logger.Debug("interest accrued", "account_id", acc.ID(), "interest", interest.String())
			}
		})
		if submitErr != nil {
			wg.Done()
			r.logger.Error("failed to submit accrual task", "account_id", acc.ID(), "error", submitErr)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return int(accrued.Load()), err
	}
	if err := r.Persist(); err != nil {
		return int(accrued.Load()), err
	}
	return int(accrued.Load()), nil
}
