package settlement_test

import (
	"testing"

	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	"github.com/pesabridge/pesabridge_backend/internal/utils/settlement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kes(t *testing.T, amount string) domain.Money {
	t.Helper()
	m, err := domain.NewMoneyFromString(amount, domain.KES)
	require.NoError(t, err)
	return m
}

func TestSettlementDeltas(t *testing.T) {
	credit := domain.TransactionRecord{
		Amount:    kes(t, "1000"),
		Fee:       kes(t, "20"),
		Direction: domain.DirectionCredit,
	}
	debit := credit
	debit.Direction = domain.DirectionDebit

	tests := []struct {
		name        string
		txn         domain.TransactionRecord
		wantSettled string
		wantFailure string
	}{
		{"credit pays in net of fee", credit, "980", "0"},
		{"debit reserved up front", debit, "0", "1020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settled, err := settlement.SettledDelta(tt.txn)
			require.NoError(t, err)
			assert.True(t, settled.Equal(kes(t, tt.wantSettled)), "settled %s", settled)

			failure, err := settlement.FailureDelta(tt.txn)
			require.NoError(t, err)
			assert.True(t, failure.Equal(kes(t, tt.wantFailure)), "failure %s", failure)
		})
	}
}
