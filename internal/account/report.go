package account

import (
	"github.com/riteshkumar/banking-ledger/internal/models"
)

// reportRecordCount is how many of the most recent records a report carries.
const reportRecordCount = 10

// Report builds the account report: current state, the last records newest
// first, and aggregate statistics from a full history scan. Read-only.
func (a *Account) Report() models.AccountReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	report := models.AccountReport{
		AccountNumber: a.number,
		ClientID:      a.ownerID,
		Variant:       a.variant,
		Status:        a.status,
		Balance:       a.balance,
		Overdraft:     a.overdraft,
		Statistics: models.ReportStatistics{
			CountsByKind: make(map[models.TransactionKind]int),
		},
	}

	n := len(a.history)
	limit := reportRecordCount
	if n < limit {
		limit = n
	}
	report.LastRecords = make([]models.TransactionRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		report.LastRecords = append(report.LastRecords, a.history[i])
	}

	for _, rec := range a.history {
		report.Statistics.CountsByKind[rec.Kind]++
		switch rec.Kind {
		case models.KindDeposit:
			report.Statistics.TotalDeposited = report.Statistics.TotalDeposited.Add(rec.Amount)
		case models.KindWithdrawal:
			report.Statistics.TotalWithdrawn = report.Statistics.TotalWithdrawn.Add(rec.Amount)
		}
	}

	return report
}
