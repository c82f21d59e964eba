package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"cashbox/internal/ledger"
	"cashbox/internal/middleware"
	"cashbox/internal/models"
	"cashbox/internal/validator"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type createCurrencyRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	DecimalPlaces int    `json:"decimal_places"`
}

func (h *Handler) CreateCurrency(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateCode(req.Code); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateDecimalPlaces(req.DecimalPlaces); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var created models.Currency
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		currency, err := h.currencies.Create(r.Context(), tx, req.Code, req.Name, req.Symbol, req.DecimalPlaces)
		if err != nil {
			return err
		}
		created = currency
		data, _ := json.Marshal(map[string]string{"code": req.Code})
		return h.audit.Log(r.Context(), tx, userID, "create", "currency", strconv.FormatInt(currency.ID, 10), string(data))
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "currency code already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create currency")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	currencies, err := h.currencies.List(r.Context(), activeOnly)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load currencies")
		return
	}
	respondJSON(w, http.StatusOK, currencies)
}

type updateCurrencyRequest struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	DecimalPlaces int    `json:"decimal_places"`
	IsActive      bool   `json:"is_active"`
}

// UpdateCurrency edits a currency's display fields. The scale is
// frozen once any transaction exists in the currency: rescaling would
// silently reinterpret every recorded amount.
func (h *Handler) UpdateCurrency(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	currencyID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid currency id")
		return
	}
	var req updateCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateDecimalPlaces(req.DecimalPlaces); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		current, err := h.currencies.GetForUpdate(r.Context(), tx, currencyID)
		if err != nil {
			return err
		}
		if req.DecimalPlaces != current.DecimalPlaces {
			count, err := h.transactions.CountByCurrency(r.Context(), tx, currencyID)
			if err != nil {
				return err
			}
			if count > 0 {
				return ledger.ErrCurrencyInUse
			}
		}
		if err := h.currencies.Update(r.Context(), tx, currencyID, req.Name, req.Symbol, req.DecimalPlaces, req.IsActive); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"code":           current.Code,
			"decimal_places": strconv.Itoa(req.DecimalPlaces),
		})
		return h.audit.Log(r.Context(), tx, userID, "update", "currency", strconv.FormatInt(currencyID, 10), string(data))
	})
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "currency not found")
			return
		}
		if err == ledger.ErrCurrencyInUse {
			respondError(w, http.StatusBadRequest, "currency has recorded transactions; decimal places cannot change")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update currency")
		return
	}
	currency, err := h.currencies.GetByID(r.Context(), currencyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load currency")
		return
	}
	respondJSON(w, http.StatusOK, currency)
}
