package repository

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/banking-ledger/internal/account"
	"github.com/riteshkumar/banking-ledger/internal/errors"
	"github.com/riteshkumar/banking-ledger/internal/models"
)

func newRepoAccount(t *testing.T, number string) *account.Account {
	t.Helper()
	a, err := account.New(number, "DNI001", models.VariantSavings, decimal.NewFromInt(100), account.NewSequence(), account.SystemClock())
	require.NoError(t, err)
	return a
}

func TestNextNumber(t *testing.T) {
	repo := NewAccountRepository()

	assert.Equal(t, "ES00001000", repo.NextNumber())
	assert.Equal(t, "ES00001001", repo.NextNumber())
	assert.Equal(t, "ES00001002", repo.NextNumber())
}

func TestNextNumberConcurrentUniqueness(t *testing.T) {
	repo := NewAccountRepository()

	const workers = 50
	numbers := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			numbers <- repo.NextNumber()
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for n := range numbers {
		assert.False(t, seen[n], "duplicate number %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
}

func TestRegisterAndGet(t *testing.T) {
	repo := NewAccountRepository()
	acct := newRepoAccount(t, repo.NextNumber())

	require.NoError(t, repo.Register(acct))

	got, err := repo.GetByNumber(acct.Number())
	require.NoError(t, err)
	assert.Same(t, acct, got)
}

func TestRegisterDuplicate(t *testing.T) {
	repo := NewAccountRepository()
	acct := newRepoAccount(t, "ES00001000")

	require.NoError(t, repo.Register(acct))
	assert.Error(t, repo.Register(acct))
}

func TestGetByNumberNotFound(t *testing.T) {
	repo := NewAccountRepository()

	_, err := repo.GetByNumber("ES99999999")
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}

func TestListSortedByNumber(t *testing.T) {
	repo := NewAccountRepository()

	require.NoError(t, repo.Register(newRepoAccount(t, "ES00001002")))
	require.NoError(t, repo.Register(newRepoAccount(t, "ES00001000")))
	require.NoError(t, repo.Register(newRepoAccount(t, "ES00001001")))

	list := repo.List()
	require.Len(t, list, 3)
	assert.Equal(t, "ES00001000", list[0].Number())
	assert.Equal(t, "ES00001001", list[1].Number())
	assert.Equal(t, "ES00001002", list[2].Number())
}
