package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/banking-ledger/internal/account"
	"github.com/riteshkumar/banking-ledger/internal/errors"
	"github.com/riteshkumar/banking-ledger/internal/models"
	"github.com/riteshkumar/banking-ledger/internal/service"
	u "github.com/riteshkumar/banking-ledger/internal/utils"
)

type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

func NewAccountHandler(accountService service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	router.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{number}", h.GetAccount).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{number}/deposit", h.Deposit).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{number}/withdraw", h.Withdraw).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{number}/status", h.SetStatus).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{number}/history", h.History).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{number}/report", h.Report).Methods(http.MethodGet)
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := u.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid create account request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	acct, err := h.accountService.CreateAccount(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create account")
		return
	}

	u.WriteJSON(w, http.StatusCreated, toAccountResponse(acct))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := h.accountService.GetAccount(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		h.handleServiceError(w, err, "get account")
		return
	}
	u.WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := h.accountService.ListAccounts(r.Context())
	out := make([]models.AccountResponse, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, toAccountResponse(acct))
	}
	u.WriteJSON(w, http.StatusOK, out)
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req models.AmountRequest
	if err := u.DecodeJSON(r, &req); err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	rec, err := h.accountService.Deposit(r.Context(), mux.Vars(r)["number"], &req)
	if err != nil {
		h.handleServiceError(w, err, "deposit")
		return
	}
	u.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req models.AmountRequest
	if err := u.DecodeJSON(r, &req); err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	rec, err := h.accountService.Withdraw(r.Context(), mux.Vars(r)["number"], &req)
	if err != nil {
		h.handleServiceError(w, err, "withdraw")
		return
	}
	u.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (h *AccountHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusRequest
	if err := u.DecodeJSON(r, &req); err != nil {
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	number := mux.Vars(r)["number"]
	if err := h.accountService.SetStatus(r.Context(), number, &req); err != nil {
		h.handleServiceError(w, err, "set status")
		return
	}

	acct, err := h.accountService.GetAccount(r.Context(), number)
	if err != nil {
		h.handleServiceError(w, err, "set status")
		return
	}
	u.WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (h *AccountHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.accountService.History(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		h.handleServiceError(w, err, "history")
		return
	}

	out := make([]models.TransactionRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordResponse(rec))
	}
	u.WriteJSON(w, http.StatusOK, out)
}

func (h *AccountHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.accountService.Report(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		h.handleServiceError(w, err, "report")
		return
	}
	u.WriteJSON(w, http.StatusOK, report)
}

func (h *AccountHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "not found", err.Error())
	case errors.IsValidationError(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	case err == errors.ErrInvalidVariant:
		u.WriteError(w, http.StatusBadRequest, "invalid account variant", "")
	case err == errors.ErrInvalidAmount:
		u.WriteError(w, http.StatusBadRequest, "invalid amount", "")
	case err == errors.ErrNegativeBalance:
		u.WriteError(w, http.StatusBadRequest, "negative balance not allowed", "")
	case errors.IsInsufficientFunds(err):
		u.WriteError(w, http.StatusUnprocessableEntity, "insufficient funds", "")
	case err == errors.ErrDailyLimitExceeded:
		u.WriteError(w, http.StatusUnprocessableEntity, "daily withdrawal limit exceeded", "")
	case err == errors.ErrWithdrawalNotPermitted:
		u.WriteError(w, http.StatusUnprocessableEntity, "withdrawals not permitted on this account", "")
	case err == errors.ErrAccountNotActive:
		u.WriteError(w, http.StatusConflict, "account is not active", "")
	case errors.IsInvalidTransition(err):
		u.WriteError(w, http.StatusConflict, "invalid status transition", err.Error())
	default:
		h.logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func toAccountResponse(acct *account.Account) models.AccountResponse {
	return models.AccountResponse{
		AccountNumber: acct.Number(),
		ClientID:      acct.OwnerID(),
		Variant:       string(acct.Variant()),
		Status:        string(acct.Status()),
		Balance:       acct.Balance().InexactFloat64(),
		Overdraft:     acct.Overdraft().InexactFloat64(),
	}
}

func toRecordResponse(rec models.TransactionRecord) models.TransactionRecordResponse {
	return models.TransactionRecordResponse{
		SequenceID:       rec.SequenceID,
		Kind:             string(rec.Kind),
		Amount:           rec.Amount.InexactFloat64(),
		Timestamp:        rec.Timestamp,
		Description:      rec.Description,
		ResultingBalance: rec.ResultingBalance.InexactFloat64(),
	}
}
