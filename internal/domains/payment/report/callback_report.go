package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"bayarcash-backend/internal/domains/payment/model"
)

const SheetName = "Callbacks"

var headers = []string{
	"ID",
	"Received At",
	"Order Number",
	"Payment Method",
	"Record Type",
	"Checksum Valid",
	"Processed",
	"Processing Error",
	"Processed At",
}

// BuildCallbackReport renders callback logs into a workbook, one row per callback.
func BuildCallbackReport(logs []model.CallbackLog) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	// Row 1: header
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(SheetName, "A1", lastCol, headerStyle)
	}

	// Data rows from row 2
	for i, l := range logs {
		rowNum := i + 2
		values := []interface{}{
			l.ID.String(),
			l.ReceivedAt.UTC().Format(time.RFC3339),
			l.OrderNumber,
			l.PaymentMethod,
			l.RecordType,
			l.IsValid,
			l.IsProcessed,
			nil,
			nil,
		}
		if l.ProcessingError != nil {
			values[7] = *l.ProcessingError
		}
		if l.ProcessedAt != nil {
			values[8] = l.ProcessedAt.UTC().Format(time.RFC3339)
		}

		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}
	}

	return f, nil
}
