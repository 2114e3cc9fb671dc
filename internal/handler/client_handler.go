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

type ClientHandler struct {
	clientService service.ClientService
	logger        *slog.Logger
}

func NewClientHandler(clientService service.ClientService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

func (h *ClientHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/clients", h.RegisterClient).Methods(http.MethodPost)
	router.HandleFunc("/clients", h.ListClients).Methods(http.MethodGet)
	router.HandleFunc("/clients/{id}", h.GetClient).Methods(http.MethodGet)
}

func (h *ClientHandler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterClientRequest
	if err := u.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid register client request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	client, err := h.clientService.RegisterClient(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "register client")
		return
	}

	u.WriteJSON(w, http.StatusCreated, toClientResponse(client))
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clientID := vars["id"]

	client, err := h.clientService.GetClient(r.Context(), clientID)
	if err != nil {
		h.handleServiceError(w, err, "get client")
		return
	}

	u.WriteJSON(w, http.StatusOK, toClientResponse(client))
}

func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients := h.clientService.ListClients(r.Context())
	out := make([]models.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	u.WriteJSON(w, http.StatusOK, out)
}

func (h *ClientHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, "client not found", "")
	case errors.IsDuplicate(err):
		u.WriteError(w, http.StatusConflict, "client id already registered", "")
	case errors.IsValidationError(err):
		u.WriteError(w, http.StatusBadRequest, "validation error", err.Error())
	default:
		h.logger.Error("internal server error during "+operation, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func toClientResponse(c *models.Client) models.ClientResponse {
	accountNumbers := c.AccountNumbers
	if accountNumbers == nil {
		accountNumbers = []string{}
	}
	return models.ClientResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Tier:           string(c.Tier),
		AccountNumbers: accountNumbers,
	}
}
