package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/riteshkumar/banking-ledger/internal/errors"
	"github.com/riteshkumar/banking-ledger/internal/models"
)

// ClientRepository is the bank's registry of clients. Clients hold only
// account-number references; the account registry owns the accounts.
type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id string) (*models.Client, error)
	List() []*models.Client
	AppendAccount(clientID, accountNumber string) error
}

// InMemoryClientRepository keeps clients in a map guarded by an RWMutex.
// Reads return copies so callers can never alias internal state.
type InMemoryClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*models.Client
}

func NewClientRepository() *InMemoryClientRepository {
	return &InMemoryClientRepository{
		clients: make(map[string]*models.Client),
	}
}

func (r *InMemoryClientRepository) Create(client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[client.ID]; exists {
		return errors.ErrDuplicateClientID
	}
	cp := copyClient(client)
	cp.CreatedAt = time.Now()
	r.clients[client.ID] = cp
	client.CreatedAt = cp.CreatedAt
	return nil
}

func (r *InMemoryClientRepository) GetByID(id string) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, errors.ErrClientNotFound
	}
	return copyClient(c), nil
}

// List returns copies of all clients, sorted by id for stable output.
func (r *InMemoryClientRepository) List() []*models.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, copyClient(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AppendAccount links a newly created account number to its owner, keeping
// the client's account list in creation order.
func (r *InMemoryClientRepository) AppendAccount(clientID, accountNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[clientID]
	if !ok {
		return errors.ErrClientNotFound
	}
	c.AccountNumbers = append(c.AccountNumbers, accountNumber)
	return nil
}

func copyClient(c *models.Client) *models.Client {
	cp := *c
	cp.AccountNumbers = make([]string, len(c.AccountNumbers))
	copy(cp.AccountNumbers, c.AccountNumbers)
	return &cp
}
