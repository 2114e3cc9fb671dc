package account

import (
	"github.com/shopspring/decimal"

	"github.com/riteshkumar/banking-ledger/internal/errors"
	"github.com/riteshkumar/banking-ledger/internal/models"
)

// TransferResult carries the records appended by a successful transfer and
// the balances both accounts ended with.
type TransferResult struct {
	Withdrawal          models.TransactionRecord
	Deposit             models.TransactionRecord
	SourceTransfer      models.TransactionRecord
	DestinationTransfer models.TransactionRecord
	SourceBalance       decimal.Decimal
	DestinationBalance  decimal.Decimal
}

// Transfer moves amount from src to dst atomically with respect to
// observers: both account locks are held for the duration, acquired in
// account-number order so opposing transfers cannot deadlock.
//
// On success each leg carries two entries: the Withdrawal/Deposit record the
// single-account operation appends, plus a Transfer record naming the
// counterparty. On failure neither balance changes and no records are
// appended.
func Transfer(src, dst *Account, amount decimal.Decimal) (TransferResult, error) {
	if src == dst || src.number == dst.number {
		return TransferResult{}, errors.ErrSameTransferAccount
	}

	first, second := src, dst
	if dst.number < src.number {
		first, second = dst, src
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if !amount.IsPositive() {
		return TransferResult{}, errors.ErrInvalidAmount
	}
	// Validate the destination before touching the source, so the withdrawal
	// never has to be compensated on the expected paths.
	if dst.status != models.StatusActive {
		return TransferResult{}, errors.ErrAccountNotActive
	}

	wrec, err := src.withdrawLocked(amount, withdrawalDescription)
	if err != nil {
		return TransferResult{}, err
	}

	drec, err := dst.depositLocked(amount, depositDescription)
	if err != nil {
		// Unreachable after the destination check above; still credit the
		// source back so a failed leg can never leave money missing.
		src.balance = src.balance.Add(amount)
		src.withdrawnToday = src.withdrawnToday.Sub(amount)
		src.record(models.KindDeposit, amount, "Transfer reversal")
		return TransferResult{}, err
	}

	srcTransfer := src.record(models.KindTransfer, amount, "Transfer to "+dst.number)
	dstTransfer := dst.record(models.KindTransfer, amount, "Transfer from "+src.number)

	return TransferResult{
		Withdrawal:          wrec,
		Deposit:             drec,
		SourceTransfer:      srcTransfer,
		DestinationTransfer: dstTransfer,
		SourceBalance:       src.balance,
		DestinationBalance:  dst.balance,
	}, nil
}
