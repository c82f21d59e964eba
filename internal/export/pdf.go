package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"cashbox/internal/ledger"
	"cashbox/internal/models"
	"cashbox/internal/money"
	"cashbox/internal/store"
)

// Reference is the printed form of a transaction id, the same form the
// search endpoint accepts back.
func Reference(transactionID int64) string {
	return fmt.Sprintf("TX-%06d", transactionID)
}

// CustomerReportPDF renders the per-currency position of one customer.
func CustomerReportPDF(w io.Writer, report ledger.Report, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Customer Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr("Customer: "+report.Customer.Name))
	pdf.Ln(6)
	if report.Customer.Phone != "" {
		pdf.Cell(0, 6, tr("Phone: "+report.Customer.Phone))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Generated: "+generatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	widths := []float64{60, 30, 25, 30, 45}
	headers := []string{"Cash Box", "Type", "Currency", "Transactions", "Balance"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, box := range report.Boxes {
		pdf.CellFormat(widths[0], 6, tr(box.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(box.AccountTypeName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, box.CurrencyCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, strconv.FormatInt(box.TransactionCount, 10), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, money.Format(box.Balance, box.DecimalPlaces), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Totals by currency")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, total := range report.Totals {
		pdf.CellFormat(40, 6, total.CurrencyCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, money.Format(total.Balance, total.DecimalPlaces), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 7, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 7, money.Format(report.GrandTotal, report.GrandTotalPlaces), "1", 0, "R", true, 0, "")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 5, "The total adds all currencies at face value without conversion.")

	return pdf.Output(w)
}

// StatementPDF renders a box's full history oldest first with a
// running balance column.
func StatementPDF(w io.Writer, box store.CashBoxDetail, rows []store.TransactionDetail, closing decimal.Decimal, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Account Statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr("Customer: "+box.CustomerName))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Cash box: %s (%s, %s)", box.Name, box.AccountTypeName, box.CurrencyCode)))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Generated: "+generatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	widths := []float64{30, 24, 24, 32, 32, 48}
	headers := []string{"Date", "Reference", "Direction", "Amount", "Balance", "Note"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	running := decimal.Zero
	for _, row := range rows {
		if row.Direction == models.DirectionDeposit {
			running = running.Add(row.Amount)
		} else {
			running = running.Sub(row.Amount)
		}
		pdf.CellFormat(widths[0], 6, row.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, Reference(row.ID), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, string(row.Direction), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, money.Format(row.Amount, box.DecimalPlaces), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, money.Format(running, box.DecimalPlaces), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, tr(row.Note), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Closing balance: %s %s", money.Format(closing, box.DecimalPlaces), box.CurrencyCode))

	return pdf.Output(w)
}

// ReceiptPDF renders a single transaction as a printable receipt with
// the amount spelled out in words.
func ReceiptPDF(w io.Writer, row store.TransactionDetail) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Receipt "+Reference(row.ID))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		"Date: " + row.CreatedAt.Format("2006-01-02 15:04"),
		"Customer: " + row.CustomerName,
		fmt.Sprintf("Cash box: %s (%s)", row.CashBoxName, row.AccountTypeCode),
		"Direction: " + string(row.Direction),
		fmt.Sprintf("Amount: %s %s", money.Format(row.Amount, row.DecimalPlaces), row.CurrencyCode),
		"In words: " + AmountInWords(row.Amount, row.DecimalPlaces, row.CurrencyCode),
	}
	if row.Note != "" {
		lines = append(lines, "Note: "+row.Note)
	}
	for _, line := range lines {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(60, 7, "Cashier signature: ______________")

	return pdf.Output(w)
}
