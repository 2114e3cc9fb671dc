package account

import (
	"github.com/riteshkumar/banking-ledger/internal/errors"
	"github.com/riteshkumar/banking-ledger/internal/models"
)

// ApplyCommission debits the variant's periodic fees:
//   - Savings: a fixed fee when the balance sits below the low-balance threshold.
//   - Checking: a fixed maintenance fee, plus 5% of any outstanding overdraft.
//   - Investment: nothing.
func (a *Account) ApplyCommission() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != models.StatusActive {
		return errors.ErrAccountNotActive
	}
	a.applyCommissionLocked()
	return nil
}

// ApplyInterest credits one month of interest (annual rate / 12) for the
// interest-bearing variants. Checking accounts never accrue interest.
func (a *Account) ApplyInterest() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != models.StatusActive {
		return errors.ErrAccountNotActive
	}
	a.applyInterestLocked()
	return nil
}

// ProcessMonthly runs commission then interest in a single critical section,
// so the status check and both applications are atomic with respect to
// concurrent administrative transitions. Returns false when the account was
// skipped because it is not active.
func (a *Account) ProcessMonthly() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != models.StatusActive {
		return false
	}
	a.applyCommissionLocked()
	a.applyInterestLocked()
	return true
}

func (a *Account) applyCommissionLocked() {
	switch a.variant {
	case models.VariantSavings:
		if a.balance.LessThan(savingsLowBalanceThreshold) {
			a.balance = a.balance.Sub(savingsLowBalanceFee)
			a.record(models.KindCommission, savingsLowBalanceFee, "Low balance commission")
		}
	case models.VariantChecking:
		a.balance = a.balance.Sub(checkingMaintenanceFee)
		a.record(models.KindCommission, checkingMaintenanceFee, "Monthly maintenance commission")
		if a.overdraft.IsPositive() {
			fee := a.overdraft.Mul(checkingOverdraftFeeRate)
			a.balance = a.balance.Sub(fee)
			a.record(models.KindCommission, fee, "Overdraft commission")
		}
	case models.VariantInvestment:
		// No commissions.
	}
}

func (a *Account) applyInterestLocked() {
	switch a.variant {
	case models.VariantSavings, models.VariantInvestment:
		interest := a.balance.Mul(a.annualRate).Div(monthsPerYear)
		a.balance = a.balance.Add(interest)
		description := "Monthly interest"
		if a.variant == models.VariantInvestment {
			description = "Investment interest"
		}
		a.record(models.KindInterest, interest, description)
	case models.VariantChecking:
		// Checking accounts never accrue interest.
	}
}
