package settlement

import (
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
)

// SettledDelta returns the wallet balance change to apply when a transaction
// settles successfully. Credits pay in the amount net of the platform fee.
// Debits moved their funds at initiation, so settlement changes nothing.
// This is used in both services and callbacks to keep the money movement
// rules in one place.
func SettledDelta(txn domain.TransactionRecord) (domain.Money, error) {
	if txn.Direction == domain.DirectionCredit {
		return txn.Amount.Sub(txn.Fee)
	}
	return domain.ZeroMoney(txn.Amount.Currency()), nil
}

// FailureDelta returns the wallet balance change to apply when a transaction
// fails after initiation. Debits reserved amount plus fee up front and get it
// back in full. Credits never moved funds, so nothing is owed.
func FailureDelta(txn domain.TransactionRecord) (domain.Money, error) {
	if txn.Direction == domain.DirectionDebit {
		return txn.Total()
	}
	return domain.ZeroMoney(txn.Amount.Currency()), nil
}
