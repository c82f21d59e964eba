package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cashbox/internal/middleware"
	"cashbox/internal/models"
	"cashbox/internal/validator"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type createAccountTypeRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (h *Handler) CreateAccountType(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createAccountTypeRequest
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
	var created models.AccountType
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		accountType, err := h.accountTypes.Create(r.Context(), tx, req.Code, req.Name)
		if err != nil {
			return err
		}
		created = accountType
		data, _ := json.Marshal(map[string]string{"code": req.Code})
		return h.audit.Log(r.Context(), tx, userID, "create", "account_type", strconv.FormatInt(accountType.ID, 10), string(data))
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "account type code already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create account type")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListAccountTypes(w http.ResponseWriter, r *http.Request) {
	accountTypes, err := h.accountTypes.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load account types")
		return
	}
	respondJSON(w, http.StatusOK, accountTypes)
}
