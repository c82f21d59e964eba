package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"cashbox/internal/models"
	"cashbox/internal/money"
	"cashbox/internal/store"
)

// StatementXLSX writes the same statement StatementPDF renders as a
// spreadsheet, one transaction per row plus a closing balance line.
func StatementXLSX(w io.Writer, box store.CashBoxDetail, rows []store.TransactionDetail, closing decimal.Decimal) error {
	f := excelize.NewFile()
	sheetName := "Statement"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)

	headers := []string{"Date", "Reference", "Direction", "Amount", "Balance", "Note"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	f.SetColWidth(sheetName, "A", "A", 18)
	f.SetColWidth(sheetName, "B", "C", 12)
	f.SetColWidth(sheetName, "D", "E", 14)
	f.SetColWidth(sheetName, "F", "F", 40)

	running := decimal.Zero
	for i, row := range rows {
		if row.Direction == models.DirectionDeposit {
			running = running.Add(row.Amount)
		} else {
			running = running.Sub(row.Amount)
		}
		rowNum := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), row.CreatedAt.Format("2006-01-02 15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), Reference(row.ID))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), string(row.Direction))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowNum), money.Format(row.Amount, box.DecimalPlaces))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowNum), money.Format(running, box.DecimalPlaces))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowNum), row.Note)
	}

	closingRow := len(rows) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", closingRow), "Closing balance")
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", closingRow), money.Format(closing, box.DecimalPlaces))

	return f.Write(w)
}
