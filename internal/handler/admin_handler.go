package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/banking-ledger/internal/models"
	"github.com/riteshkumar/banking-ledger/internal/repository"
	"github.com/riteshkumar/banking-ledger/internal/service"
	u "github.com/riteshkumar/banking-ledger/internal/utils"
)

// AdminHandler exposes the administrative/batch surface: the manual monthly
// cycle trigger and the audit journal.
type AdminHandler struct {
	cycleService service.CycleService
	auditRepo    repository.AuditRepository
	logger       *slog.Logger
}

func NewAdminHandler(cycleService service.CycleService, auditRepo repository.AuditRepository, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		cycleService: cycleService,
		auditRepo:    auditRepo,
		logger:       logger,
	}
}

func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/cycle/run", h.RunCycle).Methods(http.MethodPost)
	router.HandleFunc("/audit/{entityType}/{entityID}", h.GetAuditLogs).Methods(http.MethodGet)
}

func (h *AdminHandler) RunCycle(w http.ResponseWriter, r *http.Request) {
	summary := h.cycleService.RunCycle(r.Context())
	u.WriteJSON(w, http.StatusOK, summary)
}

func (h *AdminHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	logs, err := h.auditRepo.GetByEntityID(vars["entityType"], vars["entityID"])
	if err != nil {
		h.logger.Error("failed to get audit logs", "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}
	if logs == nil {
		logs = []*models.AuditLog{}
	}
	u.WriteJSON(w, http.StatusOK, logs)
}
