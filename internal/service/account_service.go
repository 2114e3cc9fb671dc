package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/riteshkumar/banking-ledger/internal/account"
	"github.com/riteshkumar/banking-ledger/internal/errors"
	"github.com/riteshkumar/banking-ledger/internal/models"
	"github.com/riteshkumar/banking-ledger/internal/repository"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*account.Account, error)
	GetAccount(ctx context.Context, number string) (*account.Account, error)
	ListAccounts(ctx context.Context) []*account.Account
	Deposit(ctx context.Context, number string, req *models.AmountRequest) (models.TransactionRecord, error)
	Withdraw(ctx context.Context, number string, req *models.AmountRequest) (models.TransactionRecord, error)
	History(ctx context.Context, number string) ([]models.TransactionRecord, error)
	Report(ctx context.Context, number string) (*models.AccountReport, error)
	SetStatus(ctx context.Context, number string, req *models.StatusRequest) error
}

type AccountServiceImpl struct {
	accountRepo repository.AccountRepository
	clientRepo  repository.ClientRepository
	auditRepo   repository.AuditRepository
	notifier    Notifier
	seq         *account.Sequence
	clock       account.Clock
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewAccountService(
	accountRepo repository.AccountRepository,
	clientRepo repository.ClientRepository,
	auditRepo repository.AuditRepository,
	notifier Notifier,
	seq *account.Sequence,
	clock account.Clock,
	logger *slog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		clientRepo:  clientRepo,
		auditRepo:   auditRepo,
		notifier:    notifier,
		seq:         seq,
		clock:       clock,
		validate:    validator.New(),
		logger:      logger,
	}
}

// CreateAccount allocates a fresh account number, constructs the requested
// variant and registers it both in the account registry and on the owning
// client's account list.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*account.Account, error) {
	if err := s.validate.Struct(req); err != nil {
		err = asValidationError(err)
		s.logger.Warn("invalid create account request",
			"client_id", req.ClientID,
			"error", err.Error(),
		)
		return nil, err
	}

	variant, err := models.ParseVariant(req.Variant)
	if err != nil {
		s.logger.Warn("unrecognized account variant",
			"client_id", req.ClientID,
			"variant", req.Variant,
		)
		return nil, err
	}

	if _, err := s.clientRepo.GetByID(req.ClientID); err != nil {
		s.logger.Warn("account creation for unknown client",
			"client_id", req.ClientID,
		)
		return nil, err
	}

	number := s.accountRepo.NextNumber()
	acct, err := account.New(number, req.ClientID, variant, decimal.NewFromFloat(req.InitialBalance), s.seq, s.clock)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Register(acct); err != nil {
		s.logger.Error("failed to register account",
			"account_number", number,
			"error", err.Error(),
		)
		return nil, err
	}
	if err := s.clientRepo.AppendAccount(req.ClientID, number); err != nil {
		s.logger.Error("failed to link account to client",
			"account_number", number,
			"client_id", req.ClientID,
			"error", err.Error(),
		)
		return nil, err
	}

	if err := s.createAccountAuditLog(acct); err != nil {
		s.logger.Error("failed to create audit log for account creation",
			"account_number", number,
			"error", err.Error(),
		)
	}

	s.logger.Info("account created",
		"account_number", number,
		"client_id", req.ClientID,
		"variant", string(variant),
	)
	return acct, nil
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, number string) (*account.Account, error) {
	if number == "" {
		return nil, errors.NewValidationError("account_number", "is required")
	}
	acct, err := s.accountRepo.GetByNumber(number)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("account not found",
				"account_number", number,
			)
		}
		return nil, err
	}
	return acct, nil
}

func (s *AccountServiceImpl) ListAccounts(ctx context.Context) []*account.Account {
	return s.accountRepo.List()
}

func (s *AccountServiceImpl) Deposit(ctx context.Context, number string, req *models.AmountRequest) (models.TransactionRecord, error) {
	acct, err := s.preparedOperation(number, req)
	if err != nil {
		return models.TransactionRecord{}, err
	}

	rec, err := acct.Deposit(decimal.NewFromFloat(req.Amount))
	if err != nil {
		s.logger.Warn("deposit rejected",
			"account_number", number,
			"amount", req.Amount,
			"error", err.Error(),
		)
		return models.TransactionRecord{}, err
	}

	s.logger.Info("deposit applied",
		"account_number", number,
		"amount", req.Amount,
		"sequence_id", rec.SequenceID,
	)
	s.notifyOwner(acct, req.Amount, "Deposit")
	return rec, nil
}

func (s *AccountServiceImpl) Withdraw(ctx context.Context, number string, req *models.AmountRequest) (models.TransactionRecord, error) {
	acct, err := s.preparedOperation(number, req)
	if err != nil {
		return models.TransactionRecord{}, err
	}

	rec, err := acct.Withdraw(decimal.NewFromFloat(req.Amount))
	if err != nil {
		s.logger.Warn("withdrawal rejected",
			"account_number", number,
			"amount", req.Amount,
			"error", err.Error(),
		)
		return models.TransactionRecord{}, err
	}

	s.logger.Info("withdrawal applied",
		"account_number", number,
		"amount", req.Amount,
		"sequence_id", rec.SequenceID,
	)
	s.notifyOwner(acct, req.Amount, "Withdrawal")
	return rec, nil
}

func (s *AccountServiceImpl) History(ctx context.Context, number string) ([]models.TransactionRecord, error) {
	acct, err := s.GetAccount(ctx, number)
	if err != nil {
		return nil, err
	}
	return acct.History(), nil
}

func (s *AccountServiceImpl) Report(ctx context.Context, number string) (*models.AccountReport, error) {
	acct, err := s.GetAccount(ctx, number)
	if err != nil {
		return nil, err
	}
	report := acct.Report()
	return &report, nil
}

// SetStatus applies an administrative state transition and records it in the
// audit journal.
func (s *AccountServiceImpl) SetStatus(ctx context.Context, number string, req *models.StatusRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return asValidationError(err)
	}
	next, err := models.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	acct, err := s.GetAccount(ctx, number)
	if err != nil {
		return err
	}

	previous := acct.Status()
	if err := acct.SetStatus(next); err != nil {
		s.logger.Warn("status transition rejected",
			"account_number", number,
			"from", string(previous),
			"to", string(next),
		)
		return err
	}

	oldValue, _ := json.Marshal(map[string]string{"status": string(previous)})
	newValue, _ := json.Marshal(map[string]string{"status": string(next)})
	if err := s.auditRepo.Create(&models.AuditLog{
		EntityType: models.EntityTypeAccount,
		EntityID:   number,
		Action:     models.AuditActionStatus,
		OldValue:   oldValue,
		NewValue:   newValue,
	}); err != nil {
		s.logger.Error("failed to create audit log for status change",
			"account_number", number,
			"error", err.Error(),
		)
	}

	s.logger.Info("account status changed",
		"account_number", number,
		"from", string(previous),
		"to", string(next),
	)
	return nil
}

// preparedOperation validates the request DTO and resolves the account.
func (s *AccountServiceImpl) preparedOperation(number string, req *models.AmountRequest) (*account.Account, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, asValidationError(err)
	}
	return s.accountRepo.GetByNumber(number)
}

func (s *AccountServiceImpl) createAccountAuditLog(acct *account.Account) error {
	snapshot := models.AccountBalanceSnapshot{
		AccountNumber: acct.Number(),
		Balance:       acct.Balance().InexactFloat64(),
	}
	newValue, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.auditRepo.Create(&models.AuditLog{
		EntityType: models.EntityTypeAccount,
		EntityID:   acct.Number(),
		Action:     models.AuditActionCreate,
		NewValue:   newValue,
	})
}

// notifyOwner emails the owning client about a transaction. Best effort:
// delivery problems are logged, never returned.
func (s *AccountServiceImpl) notifyOwner(acct *account.Account, amount float64, operation string) {
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
