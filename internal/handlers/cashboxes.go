package handlers

import (
	"database/sql"
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
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type createCashBoxRequest struct {
	CustomerID    int64  `json:"customer_id"`
	CurrencyID    int64  `json:"currency_id"`
	AccountTypeID int64  `json:"account_type_id"`
	Name          string `json:"name"`
}

// CreateCashBox opens a box for a customer in one currency and account
// type. A customer may hold any number of boxes, including several with
// the same currency and account type pairing.
func (h *Handler) CreateCashBox(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createCashBoxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name != "" {
		if err := validator.ValidateName(name); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if _, err := h.customers.GetByID(r.Context(), req.CustomerID); err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusBadRequest, "customer not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create cash box")
		return
	}
	currency, err := h.currencies.GetByID(r.Context(), req.CurrencyID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusBadRequest, "currency not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create cash box")
		return
	}
	if !currency.IsActive {
		respondError(w, http.StatusBadRequest, "currency is inactive")
		return
	}
	if _, err := h.accountTypes.GetByID(r.Context(), req.AccountTypeID); err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusBadRequest, "account type not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create cash box")
		return
	}
	var created models.CashBox
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		box, err := h.boxes.Create(r.Context(), tx, req.CustomerID, req.CurrencyID, req.AccountTypeID, name)
		if err != nil {
			return err
		}
		created = box
		data, _ := json.Marshal(map[string]string{
			"customer_id": strconv.FormatInt(req.CustomerID, 10),
			"currency":    currency.Code,
		})
		return h.audit.Log(r.Context(), tx, userID, "create", "cashbox", strconv.FormatInt(box.ID, 10), string(data))
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23503" {
			respondError(w, http.StatusBadRequest, "invalid reference")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create cash box")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetCashBox(w http.ResponseWriter, r *http.Request) {
	cashboxID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cashbox id")
		return
	}
	box, balance, err := h.service.BoxBalance(r.Context(), cashboxID)
	if err != nil {
		if err == ledger.ErrCashBoxNotFound {
			respondError(w, http.StatusNotFound, "cash box not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load cash box")
		return
	}
	respondJSON(w, http.StatusOK, cashBoxDetailJSON(box, balance))
}

func (h *Handler) GetCashBoxBalance(w http.ResponseWriter, r *http.Request) {
	cashboxID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cashbox id")
		return
	}
	box, balance, err := h.service.BoxBalance(r.Context(), cashboxID)
	if err != nil {
		if err == ledger.ErrCashBoxNotFound {
			respondError(w, http.StatusNotFound, "cash box not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load balance")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"cashbox_id":    box.ID,
		"currency_code": box.CurrencyCode,
		"balance":       money.Format(balance, box.DecimalPlaces),
	})
}

func (h *Handler) ListCashBoxTransactions(w http.ResponseWriter, r *http.Request) {
	cashboxID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid cashbox id")
		return
	}
	if _, err := h.boxes.GetDetail(r.Context(), cashboxID); err != nil {
		respondError(w, http.StatusNotFound, "cash box not found")
		return
	}
	page, perPage, offset := parsePagination(r, 50)
	rows, err := h.transactions.ListByBox(r.Context(), cashboxID, perPage, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	total, err := h.transactions.CountByBox(r.Context(), cashboxID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondPage(w, transactionsJSON(rows), total, page, perPage)
}

func cashBoxDetailJSON(box store.CashBoxDetail, balance decimal.Decimal) map[string]any {
	return map[string]any{
		"id":                box.ID,
		"name":              box.Name,
		"customer_id":       box.CustomerID,
		"customer_name":     box.CustomerName,
		"currency_code":     box.CurrencyCode,
		"currency_symbol":   box.CurrencySymbol,
		"decimal_places":    box.DecimalPlaces,
		"account_type_code": box.AccountTypeCode,
		"account_type_name": box.AccountTypeName,
		"balance":           money.Format(balance, box.DecimalPlaces),
		"created_at":        box.CreatedAt,
	}
}
