package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riteshkumar/banking-ledger/internal/errors"
)

// TransactionKind classifies a single ledger entry.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "DEPOSIT"
	KindWithdrawal TransactionKind = "WITHDRAWAL"
	KindTransfer   TransactionKind = "TRANSFER"
	KindInterest   TransactionKind = "INTEREST"
	KindCommission TransactionKind = "COMMISSION"
)

// AccountStatus is the administrative state of an account.
type AccountStatus string

const (
	StatusActive    AccountStatus = "ACTIVE"
	StatusBlocked   AccountStatus = "BLOCKED"
	StatusSuspended AccountStatus = "SUSPENDED"
	StatusClosed    AccountStatus = "CLOSED"
)

// ParseStatus converts a status selector supplied by the caller.
func ParseStatus(s string) (AccountStatus, error) {
	switch AccountStatus(s) {
	case StatusActive, StatusBlocked, StatusSuspended, StatusClosed:
		return AccountStatus(s), nil
	}
	return "", errors.NewValidationError("status", "must be one of ACTIVE, BLOCKED, SUSPENDED, CLOSED")
}

// AccountVariant selects the behavioral profile of an account.
type AccountVariant string

const (
	VariantSavings    AccountVariant = "SAVINGS"
	VariantChecking   AccountVariant = "CHECKING"
	VariantInvestment AccountVariant = "INVESTMENT"
)

// ParseVariant converts a variant selector supplied by the caller.
func ParseVariant(s string) (AccountVariant, error) {
	switch AccountVariant(s) {
	case VariantSavings, VariantChecking, VariantInvestment:
		return AccountVariant(s), nil
	}
	return "", errors.ErrInvalidVariant
}

// ClientTier is the commercial segment of a client.
type ClientTier string

const (
	TierRegular ClientTier = "REGULAR"
	TierPremium ClientTier = "PREMIUM"
	TierVIP     ClientTier = "VIP"
)

// ParseTier converts a tier selector supplied by the caller.
func ParseTier(s string) (ClientTier, error) {
	switch ClientTier(s) {
	case TierRegular, TierPremium, TierVIP:
		return ClientTier(s), nil
	}
	return "", errors.NewValidationError("tier", "must be one of REGULAR, PREMIUM, VIP")
}

// TransactionRecord is one immutable ledger entry: a monetary event and the
// balance it produced. Sequence ids are monotonic across all accounts.
type TransactionRecord struct {
	SequenceID       int64           `json:"sequence_id"`
	Kind             TransactionKind `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	Timestamp        time.Time       `json:"timestamp"`
	Description      string          `json:"description"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
}

// Client is a registered client. AccountNumbers are references into the
// bank's account registry; the registry owns the accounts themselves.
type Client struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Tier           ClientTier `json:"tier"`
	AccountNumbers []string   `json:"account_numbers"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AuditLog is a bank-level audit journal entry.
type AuditLog struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	OldValue   json.RawMessage `json:"old_value"`
	NewValue   json.RawMessage `json:"new_value"`
	CreatedAt  time.Time       `json:"created_at"`
}

const (
	AuditActionCreate   = "CREATE"
	AuditActionDebit    = "DEBIT"
	AuditActionCredit   = "CREDIT"
	AuditActionTransfer = "TRANSFER"
	AuditActionStatus   = "STATUS_CHANGE"
)

const (
	EntityTypeAccount     = "ACCOUNT"
	EntityTypeClient      = "CLIENT"
	EntityTypeTransaction = "TRANSACTION"
)

// AccountBalanceSnapshot is the audit payload capturing an account balance
// at a point in time.
type AccountBalanceSnapshot struct {
	AccountNumber string  `json:"account_number"`
	Balance       float64 `json:"balance"`
}

// AccountReport is the structured report for one account: current state, the
// most recent records (newest first) and aggregate statistics computed from
// the full history. Numbers only; layout belongs to the caller.
type AccountReport struct {
	AccountNumber string              `json:"account_number"`
	ClientID      string              `json:"client_id"`
	Variant       AccountVariant      `json:"variant"`
	Status        AccountStatus       `json:"status"`
	Balance       decimal.Decimal     `json:"balance"`
	Overdraft     decimal.Decimal     `json:"overdraft"`
	LastRecords   []TransactionRecord `json:"last_records"`
	Statistics    ReportStatistics    `json:"statistics"`
}

// ReportStatistics aggregates the full history of an account.
type ReportStatistics struct {
	TotalDeposited decimal.Decimal         `json:"total_deposited"`
	TotalWithdrawn decimal.Decimal         `json:"total_withdrawn"`
	CountsByKind   map[TransactionKind]int `json:"counts_by_kind"`
}

// CycleSummary reports the outcome of one monthly cycle run.
type CycleSummary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// ---- request / response DTOs (the HTTP shell's wire types) ----

type RegisterClientRequest struct {
	ID    string `json:"id" validate:"required,min=2,max=50"`
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Tier  string `json:"tier" validate:"required,oneof=REGULAR PREMIUM VIP"`
}

type ClientResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Tier           string   `json:"tier"`
	AccountNumbers []string `json:"account_numbers"`
}

type CreateAccountRequest struct {
	ClientID       string  `json:"client_id" validate:"required"`
	Variant        string  `json:"variant" validate:"required"`
	InitialBalance float64 `json:"initial_balance" validate:"gte=0"`
}

type AccountResponse struct {
	AccountNumber string  `json:"account_number"`
	ClientID      string  `json:"client_id"`
	Variant       string  `json:"variant"`
	Status        string  `json:"status"`
	Balance       float64 `json:"balance"`
	Overdraft     float64 `json:"overdraft,omitempty"`
}

type AmountRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type TransferRequest struct {
	SourceAccountNumber      string  `json:"source_account_number" validate:"required"`
	DestinationAccountNumber string  `json:"destination_account_number" validate:"required,nefield=SourceAccountNumber"`
	Amount                   float64 `json:"amount" validate:"required,gt=0"`
}

type TransferResponse struct {
	ReferenceID              string    `json:"reference_id"`
	SourceAccountNumber      string    `json:"source_account_number"`
	DestinationAccountNumber string    `json:"destination_account_number"`
	Amount                   float64   `json:"amount"`
	SourceBalance            float64   `json:"source_balance"`
	DestinationBalance       float64   `json:"destination_balance"`
	CreatedAt                time.Time `json:"created_at"`
}

type TransactionRecordResponse struct {
	SequenceID       int64     `json:"sequence_id"`
	Kind             string    `json:"kind"`
	Amount           float64   `json:"amount"`
	Timestamp        time.Time `json:"timestamp"`
	Description      string    `json:"description"`
	ResultingBalance float64   `json:"resulting_balance"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
