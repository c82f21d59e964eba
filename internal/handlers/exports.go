package handlers

import (
	"bytes"
	"net/http"
	"time"

	"cashbox/internal/export"
	"cashbox/internal/ledger"
	"cashbox/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CustomerReportPDF streams the customer report as a printable document.
func (h *Handler) CustomerReportPDF(w http.ResponseWriter, r *http.Request) {
	customerID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	report, err := h.service.CustomerReport(r.Context(), customerID)
	if err != nil {
		if err == ledger.ErrCustomerNotFound {
			respondError(w, http.StatusNotFound, "customer not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to build report")
		return
	}
	now := time.Now()
	var buf bytes.Buffer
	if err := export.CustomerReportPDF(&buf, report, now); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to render report")
		return
	}
	filename := export.SanitizeFilename(report.Customer.Name+"_report_"+now.Format("20060102_1504")) + ".pdf"
	sendAttachment(w, "application/pdf", filename, buf.Bytes())
}

func (h *Handler) CashBoxStatementPDF(w http.ResponseWriter, r *http.Request) {
	cashboxID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cashbox id")
		return
	}
	box, rows, closing, err := h.service.BoxStatement(r.Context(), cashboxID)
	if err != nil {
		if err == ledger.ErrCashBoxNotFound {
			respondError(w, http.StatusNotFound, "cash box not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to build statement")
		return
	}
	now := time.Now()
	var buf bytes.Buffer
	if err := export.StatementPDF(&buf, box, rows, closing, now); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to render statement")
		return
	}
	sendAttachment(w, "application/pdf", statementFilename(box, now, ".pdf"), buf.Bytes())
}

func (h *Handler) CashBoxStatementXLSX(w http.ResponseWriter, r *http.Request) {
	cashboxID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cashbox id")
		return
	}
	box, rows, closing, err := h.service.BoxStatement(r.Context(), cashboxID)
	if err != nil {
		if err == ledger.ErrCashBoxNotFound {
			respondError(w, http.StatusNotFound, "cash box not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to build statement")
		return
	}
	var buf bytes.Buffer
	if err := export.StatementXLSX(&buf, box, rows, closing); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to render statement")
		return
	}
	sendAttachment(w, xlsxContentType, statementFilename(box, time.Now(), ".xlsx"), buf.Bytes())
}

func (h *Handler) TransactionReceiptPDF(w http.ResponseWriter, r *http.Request) {
	transactionID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}
	detail, err := h.service.Transaction(r.Context(), transactionID)
	if err != nil {
		if err == ledger.ErrTransactionNotFound {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load transaction")
		return
	}
	var buf bytes.Buffer
	if err := export.ReceiptPDF(&buf, detail); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to render receipt")
		return
	}
	filename := "receipt_" + export.Reference(detail.ID) + ".pdf"
	sendAttachment(w, "application/pdf", filename, buf.Bytes())
}

// statementFilename follows the <Customer>_<Box>_<YYYYMMDD_HHMM>.<ext>
// convention; unnamed boxes fall back to their currency code.
func statementFilename(box store.CashBoxDetail, now time.Time, ext string) string {
	name := box.Name
	if name == "" {
		name = box.CurrencyCode
	}
	return export.SanitizeFilename(box.CustomerName+"_"+name+"_"+now.Format("20060102_1504")) + ext
}

func sendAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", export.ContentDisposition(filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
