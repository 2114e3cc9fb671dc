package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/riteshkumar/banking-ledger/internal/models"
	"github.com/riteshkumar/banking-ledger/internal/repository"
)

type CycleService interface {
	RunCycle(ctx context.Context) models.CycleSummary
	Start(interval time.Duration)
	Stop()
}

// CycleServiceImpl runs the periodic monthly batch: commission then interest
// for every active account. Runs never overlap; accounts created after a
// run's snapshot is taken are picked up by the next run.
type CycleServiceImpl struct {
	accountRepo repository.AccountRepository
	logger      *slog.Logger

	runMu    sync.Mutex
	stopOnce sync.Once
	stop     chan struct{}
}

func NewCycleService(accountRepo repository.AccountRepository, logger *slog.Logger) *CycleServiceImpl {
	return &CycleServiceImpl{
		accountRepo: accountRepo,
		logger:      logger,
		stop:        make(chan struct{}),
	}
}

// RunCycle processes every account in the snapshot, in account-number order.
// Each account is independent: a skipped or problematic account never
// prevents processing of the others.
func (s *CycleServiceImpl) RunCycle(ctx context.Context) models.CycleSummary {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	accounts := s.accountRepo.List()

	var summary models.CycleSummary
	for _, acct := range accounts {
		if acct.ProcessMonthly() {
			summary.Processed++
		} else {
			summary.Skipped++
		}
	}

	s.logger.Info("monthly cycle completed",
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return summary
}

// Start launches the scheduler goroutine driving RunCycle on a fixed
// interval until Stop is called.
func (s *CycleServiceImpl) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.RunCycle(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
	s.logger.Info("cycle scheduler started",
		"interval", interval.String(),
	)
}

// Stop terminates the scheduler goroutine. Safe to call more than once.
func (s *CycleServiceImpl) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
