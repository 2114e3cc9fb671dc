package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/riteshkumar/banking-ledger/internal/models"
)

// AuditRepository is the bank-level append-only audit journal.
type AuditRepository interface {
	Create(log *models.AuditLog) error
	GetByEntityID(entityType, entityID string) ([]*models.AuditLog, error)
}

// InMemoryAuditRepository appends entries under a mutex; entries are never
// mutated or removed once written.
type InMemoryAuditRepository struct {
	mu   sync.RWMutex
	logs []*models.AuditLog
}

func NewAuditRepository() *InMemoryAuditRepository {
	return &InMemoryAuditRepository{}
}

// Create assigns the entry an id and timestamp and appends it.
func (r *InMemoryAuditRepository) Create(log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = uuid.NewString()
	log.CreatedAt = time.Now()
	cp := *log
	r.logs = append(r.logs, &cp)
	return nil
}

// GetByEntityID returns the entries for one entity, newest first.
func (r *InMemoryAuditRepository) GetByEntityID(entityType, entityID string) ([]*models.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.AuditLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].EntityType == entityType && r.logs[i].EntityID == entityID {
			cp := *r.logs[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}
