package handlers

import "net/http"

func (h *Handler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	page, perPage, offset := parsePagination(r, 50)
	entries, err := h.audit.List(r.Context(), perPage, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit log")
		return
	}
	total, err := h.audit.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit log")
		return
	}
	respondPage(w, entries, total, page, perPage)
}
