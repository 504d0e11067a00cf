// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/foodgram/middleware"
	"github.com/danielhkuo/foodgram/store"
)

// ReferenceHandler serves the read-only tag and ingredient catalogs
type ReferenceHandler struct {
	store *store.Store
}

func NewReferenceHandler(s *store.Store) *ReferenceHandler {
	return &ReferenceHandler{store: s}
}

// ListTags handles GET /api/tags
func (h *ReferenceHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.ListTags(r.Context())
	if err != nil {
		writeError(w, err, "list tags")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tags)
}

// GetTag handles GET /api/tags/{id}
func (h *ReferenceHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Tag not found")
		return
	}
	tag, err := h.store.GetTag(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Tag not found")
		return
	}
	if err != nil {
		writeError(w, err, "query tag")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tag)
}

// ListIngredients handles GET /api/ingredients?name=<prefix>
func (h *ReferenceHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.store.ListIngredients(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err, "list ingredients")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, ingredients)
}

// GetIngredient handles GET /api/ingredients/{id}
func (h *ReferenceHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ingredient not found")
		return
	}
	ingredient, err := h.store.GetIngredient(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ingredient not found")
		return
	}
	if err != nil {
		writeError(w, err, "query ingredient")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, ingredient)
}
