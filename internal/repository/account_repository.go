package repository

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/riteshkumar/banking-ledger/internal/account"
	"github.com/riteshkumar/banking-ledger/internal/errors"
)

// AccountRepository is the bank's registry of every account it owns.
type AccountRepository interface {
	NextNumber() string
	Register(a *account.Account) error
	GetByNumber(number string) (*account.Account, error)
	List() []*account.Account
}

const (
	accountNumberPrefix = "ES"
	firstAccountNumber  = 1000
)

// InMemoryAccountRepository keeps accounts in a map guarded by an RWMutex.
// Registration serializes against concurrent creation, but never blocks
// mutation of the accounts themselves — those carry their own locks.
type InMemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
	nextSeq  atomic.Int64
}

func NewAccountRepository() *InMemoryAccountRepository {
	r := &InMemoryAccountRepository{
		accounts: make(map[string]*account.Account),
	}
	r.nextSeq.Store(firstAccountNumber - 1)
	return r
}

// NextNumber allocates a globally unique account number: a fixed prefix over
// a strictly increasing numeric suffix, safe under concurrent creation.
func (r *InMemoryAccountRepository) NextNumber() string {
	return fmt.Sprintf("%s%08d", accountNumberPrefix, r.nextSeq.Add(1))
}

func (r *InMemoryAccountRepository) Register(a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[a.Number()]; exists {
		return fmt.Errorf("account number %s already registered", a.Number())
	}
	r.accounts[a.Number()] = a
	return nil
}

func (r *InMemoryAccountRepository) GetByNumber(number string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[number]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	return a, nil
}

// List returns a snapshot of all registered accounts, sorted by account
// number so bulk operations iterate in a deterministic order. Accounts
// registered after the snapshot is taken are not included.
func (r *InMemoryAccountRepository) List() []*account.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*account.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number() < out[j].Number() })
	return out
}
