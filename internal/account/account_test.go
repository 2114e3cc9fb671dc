package account

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/banking-ledger/internal/errors"
	"github.com/riteshkumar/banking-ledger/internal/models"
)

// manualClock lets tests move the calendar forward explicitly.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(t time.Time) *manualClock {
	return &manualClock{now: t}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestAccount(t *testing.T, variant models.AccountVariant, balance int64) (*Account, *manualClock) {
	t.Helper()
	clock := newManualClock(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	acct, err := New("ES00001000", "DNI001", variant, decimal.NewFromInt(balance), NewSequence(), clock)
	require.NoError(t, err)
	return acct, clock
}

func TestNew(t *testing.T) {
	t.Run("rejects negative initial balance", func(t *testing.T) {
		_, err := New("ES00001000", "DNI001", models.VariantSavings, decimal.NewFromInt(-1), NewSequence(), SystemClock())
		assert.ErrorIs(t, err, errors.ErrNegativeBalance)
	})

	t.Run("rejects unknown variant", func(t *testing.T) {
		_, err := New("ES00001000", "DNI001", models.AccountVariant("CRYPTO"), decimal.Zero, NewSequence(), SystemClock())
		assert.ErrorIs(t, err, errors.ErrInvalidVariant)
	})

	t.Run("new account is active with empty history", func(t *testing.T) {
		acct, _ := newTestAccount(t, models.VariantSavings, 100)
		assert.Equal(t, models.StatusActive, acct.Status())
		assert.True(t, acct.Balance().Equal(decimal.NewFromInt(100)))
		assert.Empty(t, acct.History())
	})
}

func TestDeposit(t *testing.T) {
	t.Run("credits balance and records entry", func(t *testing.T) {
		acct, _ := newTestAccount(t, models.VariantSavings, 100)

		rec, err := acct.Deposit(decimal.NewFromInt(50))
		require.NoError(t, err)

		assert.Equal(t, models.KindDeposit, rec.Kind)
		assert.True(t, rec.Amount.Equal(decimal.NewFromInt(50)))
		assert.True(t, rec.ResultingBalance.Equal(decimal.NewFromInt(150)))
		assert.True(t, acct.Balance().Equal(decimal.NewFromInt(150)))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		acct, _ := newTestAccount(t, models.VariantSavings, 100)

		_, err := acct.Deposit(decimal.Zero)
		assert.ErrorIs(t, err, errors.ErrInvalidAmount)

		_, err = acct.Deposit(decimal.NewFromInt(-10))
		assert.ErrorIs(t, err, errors.ErrInvalidAmount)

		assert.Empty(t, acct.History())
	})

	t.Run("rejects when account is not active", func(t *testing.T) {
		acct, _ := newTestAccount(t, models.VariantSavings, 100)
		require.NoError(t, acct.SetStatus(models.StatusBlocked))

		_, err := acct.Deposit(decimal.NewFromInt(10))
		assert.ErrorIs(t, err, errors.ErrAccountNotActive)
		assert.True(t, acct.Balance().Equal(decimal.NewFromInt(100)))
	})
}

func TestWithdrawSavings(t *testing.T) {
	t.Run("debits within balance", func(t *testing.T) {
		acct, _ := newTestAccount(t, models.VariantSavings, 200)

		rec, err := acct.Withdraw(decimal.NewFromInt(80))
		require.NoError(t, err)

		assert.Equal(t, models.KindWithdrawal, rec.Kind)
		assert.True(t, acct.Balance().Equal(decimal.NewFromInt(120)))
	})

	t.Run("rejects amounts above balance", func(t *testing.T) {
		acct, _ := newTestAccount(t, models.VariantSavings, 50)

		_, err := acct.Withdraw(decimal.NewFromInt(51))
		assert.ErrorIs(t, err, errors.ErrInsufficientFunds)
		assert.True(t, acct.Balance().Equal(decimal.NewFromInt(50)))
		assert.Empty(t, acct.History())
	})

	t.Run("enforces the daily limit", func(t *testing.T) {
		acct, _ := newTestAccount(t, models.VariantSavings, 10000)

		_, err := acct.Withdraw(decimal.NewFromInt(400))
		require.NoError(t, err)

		_, err = acct.Withdraw(decimal.NewFromInt(101))
		assert.ErrorIs(t, err, errors.ErrDailyLimitExceeded)

		_, err = acct.Withdraw(decimal.NewFromInt(100))
		assert.NoError(t, err)
	})

	t.Run("daily window resets on the next calendar day", func(t *testing.T) {
		acct, clock := newTestAccount(t, models.VariantSavings, 10000)

		_, err := acct.Withdraw(decimal.NewFromInt(400))
		require.NoError(t, err)

		_, err = acct.Withdraw(decimal.NewFromInt(400))
		require.ErrorIs(t, err, errors.ErrDailyLimitExceeded)

		clock.Advance(24 * time.Hour)

		_, err = acct.Withdraw(decimal.NewFromInt(400))
		assert.NoError(t, err)
	})
}

func TestWithdrawChecking(t *testing.T) {
	t.Run("overflow beyond balance goes to overdraft", func(t *testing.T) {
		acct, _ := newTestAccount(t, models.VariantChecking, 100)

		_, err := acct.Withdraw(decimal.NewFromInt(250))
		require.NoError(t, err)

		assert.True(t, acct.Balance().IsZero())
		assert.True(t, acct.Overdraft().Equal(decimal.NewFromInt(150)))
	})

	t.Run("rejects beyond overdraft limit", func(t *testing.T) {
		acct, _ := newTestAccount(t, models.VariantChecking, 100)

		_, err := acct.Withdraw(decimal.NewFromInt(601))
		assert.ErrorIs(t, err, errors.ErrInsufficientFunds)
		assert.True(t, acct.Balance().Equal(decimal.NewFromInt(100)))
		assert.True(t, acct.Overdraft().IsZero())
	})

	t.Run("available funds shrink with outstanding overdraft", func(t *testing.T) {
		acct, _ := newTestAccount(t, models.VariantChecking, 0)

		_, err := acct.Withdraw(decimal.NewFromInt(300))
		require.NoError(t, err)
		require.True(t, acct.Overdraft().Equal(decimal.NewFromInt(300)))

		_, err = acct.Withdraw(decimal.NewFromInt(201))
		assert.ErrorIs(t, err, errors.ErrInsufficientFunds)

		_, err = acct.Withdraw(decimal.NewFromInt(200))
		assert.NoError(t, err)
		assert.True(t, acct.Overdraft().Equal(decimal.NewFromInt(500)))
	})
}

func TestWithdrawInvestment(t *testing.T) {
	acct, _ := newTestAccount(t, models.VariantInvestment, 5000)

	_, err := acct.Withdraw(decimal.NewFromInt(1))
	assert.ErrorIs(t, err, errors.ErrWithdrawalNotPermitted)
	assert.True(t, acct.Balance().Equal(decimal.NewFromInt(5000)))
	assert.Empty(t, acct.History())
}

func TestSetStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    models.AccountStatus
		to      models.AccountStatus
		wantErr bool
	}{
		{name: "active to blocked", from: models.StatusActive, to: models.StatusBlocked},
		{name: "active to suspended", from: models.StatusActive, to: models.StatusSuspended},
		{name: "blocked back to active", from: models.StatusBlocked, to: models.StatusActive},
		{name: "suspended back to active", from: models.StatusSuspended, to: models.StatusActive},
		{name: "blocked to closed", from: models.StatusBlocked, to: models.StatusClosed},
		{name: "same state is a no-op", from: models.StatusBlocked, to: models.StatusBlocked},
		{name: "blocked to suspended rejected", from: models.StatusBlocked, to: models.StatusSuspended, wantErr: true},
		{name: "suspended to blocked rejected", from: models.StatusSuspended, to: models.StatusBlocked, wantErr: true},
		{name: "closed is terminal", from: models.StatusClosed, to: models.StatusActive, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct, _ := newTestAccount(t, models.VariantSavings, 100)
			acct.status = tt.from

			err := acct.SetStatus(tt.to)
			if tt.wantErr {
				assert.True(t, errors.IsInvalidTransition(err))
				assert.Equal(t, tt.from, acct.Status())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, acct.Status())
			}
		})
	}
}

func TestHistorySnapshotIsolation(t *testing.T) {
	acct, _ := newTestAccount(t, models.VariantSavings, 100)

	_, err := acct.Deposit(decimal.NewFromInt(10))
	require.NoError(t, err)

	snapshot := acct.History()
	snapshot[0].Description = "tampered"

	assert.Equal(t, "Cash deposit", acct.History()[0].Description)
}

func TestLedgerReplayMatchesBalance(t *testing.T) {
	acct, _ := newTestAccount(t, models.VariantSavings, 90)

	_, err := acct.Deposit(decimal.NewFromInt(500))
	require.NoError(t, err)
	_, err = acct.Withdraw(decimal.NewFromInt(120))
	require.NoError(t, err)
	require.NoError(t, acct.ApplyCommission()) // balance 470, no fee
	require.NoError(t, acct.ApplyInterest())

	replayed := decimal.NewFromInt(90)
	for _, rec := range acct.History() {
		switch rec.Kind {
		case models.KindDeposit, models.KindInterest:
			replayed = replayed.Add(rec.Amount)
		case models.KindWithdrawal, models.KindCommission:
			replayed = replayed.Sub(rec.Amount)
		}
	}
	assert.True(t, replayed.Equal(acct.Balance()),
		"replayed %s, balance %s", replayed, acct.Balance())
}

func TestSequenceMonotonicAcrossAccounts(t *testing.T) {
	seq := NewSequence()
	clock := SystemClock()

	a, err := New("ES00001000", "DNI001", models.VariantSavings, decimal.NewFromInt(100), seq, clock)
	require.NoError(t, err)
	b, err := New("ES00001001", "DNI002", models.VariantChecking, decimal.NewFromInt(100), seq, clock)
	require.NoError(t, err)

	r1, err := a.Deposit(decimal.NewFromInt(1))
	require.NoError(t, err)
	r2, err := b.Deposit(decimal.NewFromInt(1))
	require.NoError(t, err)
	r3, err := a.Deposit(decimal.NewFromInt(1))
	require.NoError(t, err)

	assert.Less(t, r1.SequenceID, r2.SequenceID)
	assert.Less(t, r2.SequenceID, r3.SequenceID)
}

func TestConcurrentWithdrawalsRespectDailyLimit(t *testing.T) {
	// Two concurrent 300 withdrawals against a 500 daily limit: exactly one
	// may succeed, whichever it is.
	for i := 0; i < 50; i++ {
		acct, _ := newTestAccount(t, models.VariantSavings, 10000)

		var wg sync.WaitGroup
		results := make(chan error, 2)
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := acct.Withdraw(decimal.NewFromInt(300))
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var succeeded, limited int
		for err := range results {
			if err == nil {
				succeeded++
			} else if err == errors.ErrDailyLimitExceeded {
				limited++
			}
		}
		require.Equal(t, 1, succeeded)
		require.Equal(t, 1, limited)
		require.True(t, acct.Balance().Equal(decimal.NewFromInt(9700)))
	}
}

func TestConcurrentDeposits(t *testing.T) {
	acct, _ := newTestAccount(t, models.VariantSavings, 0)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := acct.Deposit(decimal.NewFromInt(10))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, acct.Balance().Equal(decimal.NewFromInt(workers*10)))
	assert.Len(t, acct.History(), workers)
}
