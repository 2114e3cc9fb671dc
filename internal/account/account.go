package account

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riteshkumar/banking-ledger/internal/errors"
	"github.com/riteshkumar/banking-ledger/internal/models"
)

// Product policy constants per variant.
var (
	baseDailyLimit       = decimal.NewFromInt(1000)
	savingsDailyLimit    = decimal.NewFromInt(500)
	checkingDailyLimit   = decimal.NewFromInt(2000)
	investmentDailyLimit = decimal.Zero

	savingsAnnualRate    = decimal.NewFromFloat(0.03)
	investmentAnnualRate = decimal.NewFromFloat(0.06)

	savingsLowBalanceThreshold = decimal.NewFromInt(100)
	savingsLowBalanceFee       = decimal.NewFromInt(5)
	checkingMaintenanceFee     = decimal.NewFromInt(10)
	checkingOverdraftFeeRate   = decimal.NewFromFloat(0.05)
	checkingOverdraftLimit     = decimal.NewFromInt(500)

	monthsPerYear = decimal.NewFromInt(12)
)

const investmentLockMonths = 12

const (
	depositDescription    = "Cash deposit"
	withdrawalDescription = "Cash withdrawal"
)

// Sequence issues transaction sequence ids that are strictly increasing
// across every account sharing the same Sequence.
type Sequence struct {
	n atomic.Int64
}

func NewSequence() *Sequence { return &Sequence{} }

func (s *Sequence) next() int64 { return s.n.Add(1) }

// Account is a variant-polymorphic bank account. Each instance is an
// independent unit of mutual exclusion: all mutation happens under mu, and
// reads return copies so callers can never reach the internal ledger.
//
// The variant rules (withdrawal, commission, interest) are dispatched by the
// variant tag; variant-specific fields are zero for the other variants.
type Account struct {
	mu sync.Mutex

	number  string
	ownerID string
	variant models.AccountVariant

	status  models.AccountStatus
	balance decimal.Decimal
	history []models.TransactionRecord

	dailyWithdrawalLimit decimal.Decimal
	withdrawnToday       decimal.Decimal
	lastWithdrawal       time.Time

	// Savings and investment accounts.
	annualRate decimal.Decimal
	// Checking accounts.
	overdraft      decimal.Decimal
	overdraftLimit decimal.Decimal
	// Investment accounts.
	lockMonths int

	clock Clock
	seq   *Sequence
}

// New constructs an account of the requested variant. The sequence is shared
// bank-wide so record ids stay globally monotonic.
func New(number, ownerID string, variant models.AccountVariant, initialBalance decimal.Decimal, seq *Sequence, clock Clock) (*Account, error) {
	if initialBalance.IsNegative() {
		return nil, errors.ErrNegativeBalance
	}

	a := &Account{
		number:               number,
		ownerID:              ownerID,
		variant:              variant,
		status:               models.StatusActive,
		balance:              initialBalance,
		dailyWithdrawalLimit: baseDailyLimit,
		clock:                clock,
		seq:                  seq,
	}

	switch variant {
	case models.VariantSavings:
		a.annualRate = savingsAnnualRate
		a.dailyWithdrawalLimit = savingsDailyLimit
	case models.VariantChecking:
		a.overdraftLimit = checkingOverdraftLimit
		a.dailyWithdrawalLimit = checkingDailyLimit
	case models.VariantInvestment:
		a.annualRate = investmentAnnualRate
		a.lockMonths = investmentLockMonths
		a.dailyWithdrawalLimit = investmentDailyLimit
	default:
		return nil, errors.ErrInvalidVariant
	}

	return a, nil
}

// Number returns the account number. Immutable after construction.
func (a *Account) Number() string { return a.number }

// OwnerID returns the owning client's id. Immutable after construction.
func (a *Account) OwnerID() string { return a.ownerID }

// Variant returns the behavioral variant. Immutable after construction.
func (a *Account) Variant() models.AccountVariant { return a.variant }

// Status returns the current administrative state.
func (a *Account) Status() models.AccountStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Balance returns the current balance. Never fails, regardless of status.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Overdraft returns the amount currently borrowed against the overdraft
// facility. Zero for non-checking variants.
func (a *Account) Overdraft() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overdraft
}

// History returns the ordered transaction log, oldest first. The returned
// slice is a copy; mutating it does not touch the account.
func (a *Account) History() []models.TransactionRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.TransactionRecord, len(a.history))
	copy(out, a.history)
	return out
}

// Deposit credits amount and appends a Deposit record.
func (a *Account) Deposit(amount decimal.Decimal) (models.TransactionRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.depositLocked(amount, depositDescription)
}

// Withdraw debits amount under the variant's withdrawal rule and the daily
// limit, and appends a Withdrawal record.
func (a *Account) Withdraw(amount decimal.Decimal) (models.TransactionRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.withdrawLocked(amount, withdrawalDescription)
}

// SetStatus applies an administrative state transition. Allowed moves:
// Active <-> Blocked, Active <-> Suspended, any -> Closed. Closed is terminal.
func (a *Account) SetStatus(next models.AccountStatus) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status == next {
		return nil
	}
	switch {
	case next == models.StatusClosed:
		// any state may close
	case a.status == models.StatusActive &&
		(next == models.StatusBlocked || next == models.StatusSuspended):
	case next == models.StatusActive &&
		(a.status == models.StatusBlocked || a.status == models.StatusSuspended):
	default:
		return errors.NewInvalidTransitionError(string(a.status), string(next))
	}
	a.status = next
	return nil
}

func (a *Account) depositLocked(amount decimal.Decimal, description string) (models.TransactionRecord, error) {
	if !amount.IsPositive() {
		return models.TransactionRecord{}, errors.ErrInvalidAmount
	}
	if a.status != models.StatusActive {
		return models.TransactionRecord{}, errors.ErrAccountNotActive
	}
	a.balance = a.balance.Add(amount)
	return a.record(models.KindDeposit, amount, description), nil
}

func (a *Account) withdrawLocked(amount decimal.Decimal, description string) (models.TransactionRecord, error) {
	if !amount.IsPositive() {
		return models.TransactionRecord{}, errors.ErrInvalidAmount
	}
	if a.status != models.StatusActive {
		return models.TransactionRecord{}, errors.ErrAccountNotActive
	}
	if a.variant == models.VariantInvestment {
		// Lock policy: funds stay put for the full term, no matter the state
		// of the limits or the balance.
		return models.TransactionRecord{}, errors.ErrWithdrawalNotPermitted
	}

	a.resetDailyWindow()

	if a.withdrawnToday.Add(amount).GreaterThan(a.dailyWithdrawalLimit) {
		return models.TransactionRecord{}, errors.ErrDailyLimitExceeded
	}

	switch a.variant {
	case models.VariantChecking:
		available := a.balance.Add(a.overdraftLimit).Sub(a.overdraft)
		if amount.GreaterThan(available) {
			return models.TransactionRecord{}, errors.ErrInsufficientFunds
		}
		if amount.LessThanOrEqual(a.balance) {
			a.balance = a.balance.Sub(amount)
		} else {
			// Negative position lives in the overdraft, never in the balance.
			a.overdraft = a.overdraft.Add(amount.Sub(a.balance))
			a.balance = decimal.Zero
		}
	default:
		if a.balance.LessThan(amount) {
			return models.TransactionRecord{}, errors.ErrInsufficientFunds
		}
		a.balance = a.balance.Sub(amount)
	}

	a.withdrawnToday = a.withdrawnToday.Add(amount)
	a.lastWithdrawal = a.clock.Now()
	return a.record(models.KindWithdrawal, amount, description), nil
}

// resetDailyWindow zeroes the daily counter the first time an operation runs
// on a calendar date strictly after the last withdrawal's date.
func (a *Account) resetDailyWindow() {
	if a.lastWithdrawal.IsZero() {
		return
	}
	now := a.clock.Now()
	ly, lm, ld := a.lastWithdrawal.Date()
	ny, nm, nd := now.Date()
	lastDay := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	if lastDay.Before(today) {
		a.withdrawnToday = decimal.Zero
	}
}

// record appends an immutable ledger entry capturing the balance the event
// produced. Must be called with mu held.
func (a *Account) record(kind models.TransactionKind, amount decimal.Decimal, description string) models.TransactionRecord {
	rec := models.TransactionRecord{
		SequenceID:       a.seq.next(),
		Kind:             kind,
		Amount:           amount,
		Timestamp:        a.clock.Now(),
		Description:      description,
		ResultingBalance: a.balance,
	}
	a.history = append(a.history, rec)
	return rec
}
