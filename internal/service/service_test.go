package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/banking-ledger/internal/account"
	"github.com/riteshkumar/banking-ledger/internal/models"
	"github.com/riteshkumar/banking-ledger/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingNotifier captures notifications instead of delivering them.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *recordingNotifier) SendTransactionNotification(to, accountNumber string, amount float64, operation string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, operation)
	return nil
}

func (n *recordingNotifier) operations() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	copy(out, n.sent)
	return out
}

// testEnv wires the full service stack over in-memory registries.
type testEnv struct {
	clientRepo  *repository.InMemoryClientRepository
	accountRepo *repository.InMemoryAccountRepository
	auditRepo   *repository.InMemoryAuditRepository
	notifier    *recordingNotifier

	clients   *ClientServiceImpl
	accounts  *AccountServiceImpl
	transfers *TransferServiceImpl
	cycle     *CycleServiceImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := testLogger()

	env := &testEnv{
		clientRepo:  repository.NewClientRepository(),
		accountRepo: repository.NewAccountRepository(),
		auditRepo:   repository.NewAuditRepository(),
		notifier:    &recordingNotifier{},
	}
	env.clients = NewClientService(env.clientRepo, env.auditRepo, logger)
	env.accounts = NewAccountService(env.accountRepo, env.clientRepo, env.auditRepo, env.notifier, account.NewSequence(), account.SystemClock(), logger)
	env.transfers = NewTransferService(env.accountRepo, env.clientRepo, env.auditRepo, env.notifier, logger)
	env.cycle = NewCycleService(env.accountRepo, logger)
	return env
}

func (env *testEnv) registerClient(t *testing.T, id string) *models.Client {
	t.Helper()
	client, err := env.clients.RegisterClient(context.Background(), &models.RegisterClientRequest{
		ID:    id,
		Name:  "Juan Perez",
		Email: "juan@email.com",
		Tier:  "REGULAR",
	})
	require.NoError(t, err)
	return client
}

func (env *testEnv) createAccount(t *testing.T, clientID, variant string, balance float64) *account.Account {
	t.Helper()
	acct, err := env.accounts.CreateAccount(context.Background(), &models.CreateAccountRequest{
		ClientID:       clientID,
		Variant:        variant,
		InitialBalance: balance,
	})
	require.NoError(t, err)
	return acct
}
