package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/banking-ledger/internal/errors"
	"github.com/riteshkumar/banking-ledger/internal/models"
	"github.com/riteshkumar/banking-ledger/internal/service"
	u "github.com/riteshkumar/banking-ledger/internal/utils"
)

type TransferHandler struct {
	transferService service.TransferService
	logger          *slog.Logger
}

func NewTransferHandler(transferService service.TransferService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

func (h *TransferHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", h.CreateTransfer).Methods(http.MethodPost)
}

func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := u.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid transfer request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	transfer, err := h.transferService.Transfer(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "transfer")
		return
	}

	u.WriteJSON(w, http.StatusCreated, transfer)
}

func (h *TransferHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "account not found", err.Error())
	case errors.IsInsufficientFunds(err):
		u.WriteError(w, http.StatusUnprocessableEntity, "insufficient funds", "source account does not have enough funds for the transfer")
	case errors.IsValidationError(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	case err == errors.ErrSameTransferAccount:
		u.WriteError(w, http.StatusBadRequest, "same source and destination account", err.Error())
	case err == errors.ErrInvalidAmount:
		u.WriteError(w, http.StatusBadRequest, "invalid amount", err.Error())
	case err == errors.ErrDailyLimitExceeded:
		u.WriteError(w, http.StatusUnprocessableEntity, "daily withdrawal limit exceeded", "")
	case err == errors.ErrWithdrawalNotPermitted:
		u.WriteError(w, http.StatusUnprocessableEntity, "withdrawals not permitted on this account", "")
	case err == errors.ErrAccountNotActive:
		u.WriteError(w, http.StatusConflict, "account is not active", "")
	default:
		h.logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}
