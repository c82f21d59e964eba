package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cashbox/internal/export"
	"cashbox/internal/ledger"
	"cashbox/internal/middleware"
	"cashbox/internal/money"
	"cashbox/internal/store"
)

type createTransactionRequest struct {
	CashBoxID int64  `json:"cashbox_id"`
	Direction string `json:"direction"`
	Amount    string `json:"amount"`
	Note      string `json:"note"`
}

// CreateTransaction posts one movement against a box. The amount
// travels as a string so client-side float formatting never reaches
// the stored value.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.service.Create(r.Context(), ledger.CreateRequest{
		CashBoxID: req.CashBoxID,
		Direction: req.Direction,
		Amount:    req.Amount,
		Note:      req.Note,
		ActorID:   userID,
	})
	if err != nil {
		var validationErr *ledger.ValidationError
		if errors.As(err, &validationErr) {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error": validationErr.Message,
				"field": validationErr.Field,
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to record transaction")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"transaction": map[string]any{
			"id":            result.Transaction.ID,
			"reference":     export.Reference(result.Transaction.ID),
			"cashbox_id":    result.Box.ID,
			"cashbox_name":  result.Box.Name,
			"customer_name": result.Box.CustomerName,
			"direction":     result.Transaction.Direction,
			"amount":        money.Format(result.Transaction.Amount, result.Box.DecimalPlaces),
			"currency_code": result.Box.CurrencyCode,
			"note":          result.Transaction.Note,
			"created_at":    result.Transaction.CreatedAt,
		},
		"balance": money.Format(result.Balance, result.Box.DecimalPlaces),
	})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	page, perPage, offset := parsePagination(r, 50)
	rows, err := h.transactions.List(r.Context(), perPage, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	total, err := h.transactions.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondPage(w, transactionsJSON(rows), total, page, perPage)
}

// SearchTransactions resolves free-form text such as "TX-000123" or
// "receipt 42" to the transaction whose id the digits spell out.
func (h *Handler) SearchTransactions(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.ResolveReference(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if err == ledger.ErrTransactionNotFound {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "search failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transaction_id": detail.ID,
		"cashbox_id":     detail.CashBoxID,
		"customer_id":    detail.CustomerID,
	})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, transactionJSON(detail))
}

func transactionJSON(row store.TransactionDetail) map[string]any {
	return map[string]any{
		"id":                row.ID,
		"reference":         export.Reference(row.ID),
		"cashbox_id":        row.CashBoxID,
		"cashbox_name":      row.CashBoxName,
		"customer_id":       row.CustomerID,
		"customer_name":     row.CustomerName,
		"direction":         row.Direction,
		"amount":            money.Format(row.Amount, row.DecimalPlaces),
		"currency_code":     row.CurrencyCode,
		"currency_symbol":   row.CurrencySymbol,
		"account_type_code": row.AccountTypeCode,
		"note":              row.Note,
		"created_at":        row.CreatedAt,
	}
}

func transactionsJSON(rows []store.TransactionDetail) []map[string]any {
	normalized := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, transactionJSON(row))
	}
	return normalized
}
