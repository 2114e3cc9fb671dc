package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/riteshkumar/banking-ledger/internal/account"
	"github.com/riteshkumar/banking-ledger/internal/errors"
	"github.com/riteshkumar/banking-ledger/internal/models"
	"github.com/riteshkumar/banking-ledger/internal/repository"
)

type TransferService interface {
	Transfer(ctx context.Context, req *models.TransferRequest) (*models.TransferResponse, error)
}

type TransferServiceImpl struct {
	accountRepo repository.AccountRepository
	clientRepo  repository.ClientRepository
	auditRepo   repository.AuditRepository
	notifier    Notifier
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewTransferService(
	accountRepo repository.AccountRepository,
	clientRepo repository.ClientRepository,
	auditRepo repository.AuditRepository,
	notifier Notifier,
	logger *slog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		accountRepo: accountRepo,
		clientRepo:  clientRepo,
		auditRepo:   auditRepo,
		notifier:    notifier,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Transfer moves funds between two accounts. Either both the withdrawal from
// the source and the deposit to the destination succeed and are recorded, or
// neither account changes; the error propagates unchanged to the caller.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req *models.TransferRequest) (*models.TransferResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		err = asValidationError(err)
		s.logger.Warn("invalid transfer request",
			"source_account_number", req.SourceAccountNumber,
			"destination_account_number", req.DestinationAccountNumber,
			"amount", req.Amount,
			"error", err.Error(),
		)
		return nil, err
	}

	src, err := s.accountRepo.GetByNumber(req.SourceAccountNumber)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("source account not found",
				"source_account_number", req.SourceAccountNumber,
			)
			return nil, fmt.Errorf("source account: %w", err)
		}
		return nil, err
	}

	dst, err := s.accountRepo.GetByNumber(req.DestinationAccountNumber)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("destination account not found",
				"destination_account_number", req.DestinationAccountNumber,
			)
			return nil, fmt.Errorf("destination account: %w", err)
		}
		return nil, err
	}

	amount := decimal.NewFromFloat(req.Amount)
	oldSourceBalance := src.Balance()
	oldDestinationBalance := dst.Balance()

	result, err := account.Transfer(src, dst, amount)
	if err != nil {
		s.logger.Warn("transfer rejected",
			"source_account_number", req.SourceAccountNumber,
			"destination_account_number", req.DestinationAccountNumber,
			"amount", req.Amount,
			"error", err.Error(),
		)
		return nil, err
	}

	referenceID := uuid.NewString()
	if err := s.createTransferAuditLogs(referenceID, req, oldSourceBalance, oldDestinationBalance, result); err != nil {
		s.logger.Error("failed to create audit logs for transfer",
			"reference_id", referenceID,
			"error", err.Error(),
		)
		// The transfer itself is already committed; audit failure does not
		// undo it.
	}

	s.logger.Info("transfer completed",
		"reference_id", referenceID,
		"source_account_number", req.SourceAccountNumber,
		"destination_account_number", req.DestinationAccountNumber,
		"amount", req.Amount,
	)

	s.notifyOwner(src, req.Amount, "Transfer sent")
	s.notifyOwner(dst, req.Amount, "Transfer received")

	return &models.TransferResponse{
		ReferenceID:              referenceID,
		SourceAccountNumber:      req.SourceAccountNumber,
		DestinationAccountNumber: req.DestinationAccountNumber,
		Amount:                   req.Amount,
		SourceBalance:            result.SourceBalance.InexactFloat64(),
		DestinationBalance:       result.DestinationBalance.InexactFloat64(),
		CreatedAt:                time.Now(),
	}, nil
}

func (s *TransferServiceImpl) createTransferAuditLogs(referenceID string, req *models.TransferRequest, oldSourceBalance, oldDestinationBalance decimal.Decimal, result account.TransferResult) error {
	sourceOld, _ := json.Marshal(models.AccountBalanceSnapshot{
		AccountNumber: req.SourceAccountNumber,
		Balance:       oldSourceBalance.InexactFloat64(),
	})
	sourceNew, _ := json.Marshal(models.AccountBalanceSnapshot{
		AccountNumber: req.SourceAccountNumber,
		Balance:       result.SourceBalance.InexactFloat64(),
	})
	if err := s.auditRepo.Create(&models.AuditLog{
		EntityType: models.EntityTypeAccount,
		EntityID:   req.SourceAccountNumber,
		Action:     models.AuditActionDebit,
		OldValue:   sourceOld,
		NewValue:   sourceNew,
	}); err != nil {
		return fmt.Errorf("source audit log: %w", err)
	}

	destinationOld, _ := json.Marshal(models.AccountBalanceSnapshot{
		AccountNumber: req.DestinationAccountNumber,
		Balance:       oldDestinationBalance.InexactFloat64(),
	})
	destinationNew, _ := json.Marshal(models.AccountBalanceSnapshot{
		AccountNumber: req.DestinationAccountNumber,
		Balance:       result.DestinationBalance.InexactFloat64(),
	})
	if err := s.auditRepo.Create(&models.AuditLog{
		EntityType: models.EntityTypeAccount,
		EntityID:   req.DestinationAccountNumber,
		Action:     models.AuditActionCredit,
		OldValue:   destinationOld,
		NewValue:   destinationNew,
	}); err != nil {
		return fmt.Errorf("destination audit log: %w", err)
	}

	transferValue, _ := json.Marshal(struct {
		ReferenceID              string  `json:"reference_id"`
		SourceAccountNumber      string  `json:"source_account_number"`
		DestinationAccountNumber string  `json:"destination_account_number"`
		Amount                   float64 `json:"amount"`
	}{
		ReferenceID:              referenceID,
		SourceAccountNumber:      req.SourceAccountNumber,
		DestinationAccountNumber: req.DestinationAccountNumber,
		Amount:                   req.Amount,
	})
	if err := s.auditRepo.Create(&models.AuditLog{
		EntityType: models.EntityTypeTransaction,
		EntityID:   referenceID,
		Action:     models.AuditActionTransfer,
		NewValue:   transferValue,
	}); err != nil {
		return fmt.Errorf("transaction audit log: %w", err)
	}

	return nil
}

func (s *TransferServiceImpl) notifyOwner(acct *account.Account, amount float64, operation string) {
	client, err := s.clientRepo.GetByID(acct.OwnerID())
	if err != nil {
		return
	}
	if err := s.notifier.SendTransactionNotification(client.Email, acct.Number(), amount, operation); err != nil {
		s.logger.Warn("failed to send transaction notification",
			"account_number", acct.Number(),
			"error", err.Error(),
		)
	}
}
