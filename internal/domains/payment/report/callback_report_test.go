package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bayarcash-backend/internal/domains/payment/model"
)

func TestBuildCallbackReport(t *testing.T) {
	received := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	failure := "checksum mismatch"
	logs := []model.CallbackLog{
		{ID: uuid.New(), OrderNumber: "100", PaymentMethod: model.MethodFPX, RecordType: "transaction_receipt", IsValid: true, IsProcessed: true, ReceivedAt: received},
		{ID: uuid.New(), OrderNumber: "101", PaymentMethod: model.MethodDirectDebit, RecordType: "bank_approval", ProcessingError: &failure, ReceivedAt: received},
	}

	f, err := BuildCallbackReport(logs)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Order Number", rows[0][2])
	assert.Equal(t, "100", rows[1][2])
	assert.Equal(t, "2026-03-01T08:30:00Z", rows[1][1])
	assert.Equal(t, "TRUE", rows[1][5])
	assert.Equal(t, "bank_approval", rows[2][4])
	assert.Equal(t, "checksum mismatch", rows[2][7])
}

func TestBuildCallbackReport_Empty(t *testing.T) {
	f, err := BuildCallbackReport(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
