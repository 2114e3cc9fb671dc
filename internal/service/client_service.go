package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/riteshkumar/banking-ledger/internal/errors"
	"github.com/riteshkumar/banking-ledger/internal/models"
	"github.com/riteshkumar/banking-ledger/internal/repository"
)

type ClientService interface {
	RegisterClient(ctx context.Context, req *models.RegisterClientRequest) (*models.Client, error)
	GetClient(ctx context.Context, id string) (*models.Client, error)
	ListClients(ctx context.Context) []*models.Client
}

type ClientServiceImpl struct {
	clientRepo repository.ClientRepository
	auditRepo  repository.AuditRepository
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewClientService(clientRepo repository.ClientRepository, auditRepo repository.AuditRepository, logger *slog.Logger) *ClientServiceImpl {
	return &ClientServiceImpl{
		clientRepo: clientRepo,
		auditRepo:  auditRepo,
		validate:   validator.New(),
		logger:     logger,
	}
}

func (s *ClientServiceImpl) RegisterClient(ctx context.Context, req *models.RegisterClientRequest) (*models.Client, error) {
	if err := s.validate.Struct(req); err != nil {
		err = asValidationError(err)
		s.logger.Warn("invalid register client request",
			"client_id", req.ID,
			"error", err.Error(),
		)
		return nil, err
	}

	tier, err := models.ParseTier(req.Tier)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		ID:    req.ID,
		Name:  req.Name,
		Email: req.Email,
		Tier:  tier,
	}

	if err := s.clientRepo.Create(client); err != nil {
		if errors.IsDuplicate(err) {
			s.logger.Warn("client id already registered",
				"client_id", req.ID,
			)
			return nil, err
		}
		s.logger.Error("failed to register client",
			"client_id", req.ID,
			"error", err.Error(),
		)
		return nil, err
	}

	if err := s.createClientAuditLog(client); err != nil {
		s.logger.Error("failed to create audit log for client registration",
			"client_id", req.ID,
			"error", err.Error(),
		)
	}

	s.logger.Info("client registered",
		"client_id", client.ID,
		"tier", string(client.Tier),
	)
	return client, nil
}

func (s *ClientServiceImpl) GetClient(ctx context.Context, id string) (*models.Client, error) {
	if id == "" {
		return nil, errors.NewValidationError("id", "is required")
	}

	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("client not found",
				"client_id", id,
			)
			return nil, err
		}
		s.logger.Error("failed to get client",
			"client_id", id,
			"error", err.Error(),
		)
		return nil, err
	}
	return client, nil
}

func (s *ClientServiceImpl) ListClients(ctx context.Context) []*models.Client {
	return s.clientRepo.List()
}

func (s *ClientServiceImpl) createClientAuditLog(client *models.Client) error {
	newValue, err := json.Marshal(client)
	if err != nil {
		return err
	}
	return s.auditRepo.Create(&models.AuditLog{
		EntityType: models.EntityTypeClient,
		EntityID:   client.ID,
		Action:     models.AuditActionCreate,
		NewValue:   newValue,
	})
}
