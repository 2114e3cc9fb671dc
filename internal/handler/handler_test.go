package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/banking-ledger/internal/account"
	"github.com/riteshkumar/banking-ledger/internal/repository"
	"github.com/riteshkumar/banking-ledger/internal/service"
)

// newTestServer wires the full HTTP surface over in-memory registries.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	accountRepo := repository.NewAccountRepository()
	clientRepo := repository.NewClientRepository()
	auditRepo := repository.NewAuditRepository()
	notifier := service.NoopNotifier{}

	clientService := service.NewClientService(clientRepo, auditRepo, logger)
	accountService := service.NewAccountService(accountRepo, clientRepo, auditRepo, notifier, account.NewSequence(), account.SystemClock(), logger)
	transferService := service.NewTransferService(accountRepo, clientRepo, auditRepo, notifier, logger)
	cycleService := service.NewCycleService(accountRepo, logger)

	router := mux.NewRouter()
	NewClientHandler(clientService, logger).RegisterRoutes(router)
	NewAccountHandler(accountService, logger).RegisterRoutes(router)
	NewTransferHandler(transferService, logger).RegisterRoutes(router)
	NewAdminHandler(cycleService, auditRepo, logger).RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, payload any) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func registerClient(t *testing.T, baseURL, id string) {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, baseURL+"/clients", map[string]any{
		"id":    id,
		"name":  "Juan Perez",
		"email": "juan@email.com",
		"tier":  "REGULAR",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func createAccount(t *testing.T, baseURL, clientID, variant string, balance float64) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, baseURL+"/accounts", map[string]any{
		"client_id":       clientID,
		"variant":         variant,
		"initial_balance": balance,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out struct {
		AccountNumber string `json:"account_number"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.AccountNumber)
	return out.AccountNumber
}

func accountURL(baseURL, number, suffix string) string {
	return fmt.Sprintf("%s/accounts/%s%s", baseURL, number, suffix)
}
