package handlers

import "net/http"

// Dashboard returns the entity counts the front page tiles show.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load dashboard")
		return
	}
	boxes, err := h.boxes.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load dashboard")
		return
	}
	transactions, err := h.transactions.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load dashboard")
		return
	}
	currencies, err := h.currencies.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load dashboard")
		return
	}
	accountTypes, err := h.accountTypes.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{
		"customers":     customers,
		"cashboxes":     boxes,
		"transactions":  transactions,
		"currencies":    currencies,
		"account_types": accountTypes,
	})
}
