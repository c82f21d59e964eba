package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"cashbox/internal/ledger"
	"cashbox/internal/middleware"
	"cashbox/internal/models"
	"cashbox/internal/money"
	"cashbox/internal/store"
	"cashbox/internal/validator"

	"github.com/jmoiron/sqlx"
)

type customerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	var created models.Customer
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		customer, err := h.customers.Create(r.Context(), tx, name, phone)
		if err != nil {
			return err
		}
		created = customer
		data, _ := json.Marshal(map[string]string{"name": name})
		return h.audit.Log(r.Context(), tx, userID, "create", "customer", strconv.FormatInt(customer.ID, 10), string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create customer")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, perPage, offset := parsePagination(r, 20)
	customers, err := h.customers.List(r.Context(), perPage, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load customers")
		return
	}
	total, err := h.customers.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load customers")
		return
	}
	respondPage(w, customers, total, page, perPage)
}

// CustomerNames returns the id/name pairs the box-creation and search
// forms need, without pagination.
func (h *Handler) CustomerNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.customers.ListNames(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load customers")
		return
	}
	respondJSON(w, http.StatusOK, names)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	customer, err := h.customers.GetByID(r.Context(), customerID)
	if err != nil {
		respondError(w, http.StatusNotFound, "customer not found")
		return
	}
	boxes, err := h.boxes.ListByCustomer(r.Context(), customerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load cash boxes")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"customer":   customer,
		"cash_boxes": cashBoxSummariesJSON(boxes),
	})
}

func (h *Handler) ListCustomerCashBoxes(w http.ResponseWriter, r *http.Request) {
	customerID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	if _, err := h.customers.GetByID(r.Context(), customerID); err != nil {
		respondError(w, http.StatusNotFound, "customer not found")
		return
	}
	boxes, err := h.boxes.ListByCustomer(r.Context(), customerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load cash boxes")
		return
	}
	respondJSON(w, http.StatusOK, cashBoxSummariesJSON(boxes))
}

func (h *Handler) ListCustomerTransactions(w http.ResponseWriter, r *http.Request) {
	customerID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	if _, err := h.customers.GetByID(r.Context(), customerID); err != nil {
		respondError(w, http.StatusNotFound, "customer not found")
		return
	}
	page, perPage, offset := parsePagination(r, 50)
	rows, err := h.transactions.ListByCustomer(r.Context(), customerID, perPage, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	total, err := h.transactions.CountByCustomer(r.Context(), customerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondPage(w, transactionsJSON(rows), total, page, perPage)
}

func (h *Handler) CustomerReport(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, reportJSON(report))
}

func reportJSON(report ledger.Report) map[string]any {
	totals := make([]map[string]any, 0, len(report.Totals))
	for _, total := range report.Totals {
		totals = append(totals, map[string]any{
			"currency_code":   total.CurrencyCode,
			"currency_symbol": total.CurrencySymbol,
			"decimal_places":  total.DecimalPlaces,
			"balance":         money.Format(total.Balance, total.DecimalPlaces),
		})
	}
	return map[string]any{
		"customer":         report.Customer,
		"cash_boxes":       cashBoxSummariesJSON(report.Boxes),
		"totals":           totals,
		"grand_total":      money.Format(report.GrandTotal, report.GrandTotalPlaces),
		"grand_total_note": "all currencies summed at face value without conversion",
	}
}

func cashBoxSummariesJSON(boxes []store.CashBoxSummary) []map[string]any {
	normalized := make([]map[string]any, 0, len(boxes))
	for _, box := range boxes {
		normalized = append(normalized, map[string]any{
			"id":                box.ID,
			"name":              box.Name,
			"currency_code":     box.CurrencyCode,
			"currency_symbol":   box.CurrencySymbol,
			"account_type_code": box.AccountTypeCode,
			"account_type_name": box.AccountTypeName,
			"balance":           money.Format(box.Balance, box.DecimalPlaces),
			"transaction_count": box.TransactionCount,
			"created_at":        box.CreatedAt,
		})
	}
	return normalized
}
