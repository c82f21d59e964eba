package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

var errInvalidID = errors.New("invalid id")

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// parsePagination reads ?page and ?per_page with a per-resource default
// page size, capped so a single request cannot dump the whole table.
func parsePagination(r *http.Request, defaultPerPage int) (page, perPage, offset int) {
	query := r.URL.Query()
	page = parseInt(query.Get("page"), 1)
	perPage = parseInt(query.Get("per_page"), defaultPerPage)
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage, (page - 1) * perPage
}
