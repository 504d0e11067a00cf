// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/danielhkuo/foodgram/media"
	"github.com/danielhkuo/foodgram/middleware"
	"github.com/danielhkuo/foodgram/models"
	"github.com/danielhkuo/foodgram/recipes"
	"github.com/danielhkuo/foodgram/relations"
	"github.com/danielhkuo/foodgram/store"
)

// MaxPageSize caps the limit query parameter
const MaxPageSize = 100

// pathID parses the {name} path parameter as a positive id
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pagination is the page/limit pair of a list request
type pagination struct {
	page  int
	limit int
}

func (p pagination) offset() int {
	return (p.page - 1) * p.limit
}

// parsePagination reads page and limit, falling back to page 1 and
// defaultLimit for missing or malformed values
func parsePagination(r *http.Request, defaultLimit int) pagination {
	p := pagination{page: 1, limit: defaultLimit}
	q := r.URL.Query()
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		p.limit = min(n, MaxPageSize)
	}
	return p
}

// newPage wraps results with count and absolute next/previous links
func newPage[T any](r *http.Request, p pagination, count int, results []T) models.Page[T] {
	page := models.Page[T]{Count: count, Results: results}
	if p.page*p.limit < count {
		next := pageURL(r, p.page+1)
		page.Next = &next
	}
	if p.page > 1 {
		prev := pageURL(r, p.page-1)
		page.Previous = &prev
	}
	return page
}

func pageURL(r *http.Request, page int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	q := r.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}

// writeError maps domain errors onto HTTP responses. Anything it does not
// recognise is logged and reported as a 500.
func writeError(w http.ResponseWriter, err error, action string) {
	var verr *recipes.ValidationError
	var rerr *relations.Error

	switch {
	case errors.As(err, &verr):
		middleware.FieldError(w, verr.Field, verr.Error())
	case errors.Is(err, media.ErrInvalidImage):
		middleware.FieldError(w, recipes.FieldImage, err.Error())
	case errors.Is(err, recipes.ErrIngredientNotFound):
		middleware.FieldError(w, recipes.FieldIngredients, err.Error())
	case errors.Is(err, recipes.ErrAuthorMismatch):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, recipes.ErrRecipeNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Recipe not found")
	case errors.As(err, &rerr) && errors.Is(rerr, relations.ErrTargetNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, rerr.Error())
	case errors.As(err, &rerr):
		middleware.DetailError(w, http.StatusBadRequest, rerr.Error())
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	default:
		slog.Error("failed to "+action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
