// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/foodgram/cliparse"
	"github.com/danielhkuo/foodgram/middleware"
	"github.com/danielhkuo/foodgram/relations"
	"github.com/danielhkuo/foodgram/store"
)

type SubscriptionHandler struct {
	store *store.Store
	guard *relations.Guard
	cfg   cliparse.Config
}

func NewSubscriptionHandler(s *store.Store, guard *relations.Guard, cfg cliparse.Config) *SubscriptionHandler {
	return &SubscriptionHandler{store: s, guard: guard, cfg: cfg}
}

// recipesLimit reads recipes_limit; missing or invalid means no limit
func recipesLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("recipes_limit"))
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// List handles GET /api/users/subscriptions
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parsePagination(r, h.cfg.PageSize)
	subs, count, err := h.store.ListSubscriptions(r.Context(), middleware.UserID(r.Context()), p.limit, p.offset(), recipesLimit(r))
	if err != nil {
		writeError(w, err, "list subscriptions")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, newPage(r, p, count, subs))
}

// Subscribe handles POST /api/users/{id}/subscribe
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	authorID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	userID := middleware.UserID(r.Context())

	if err := h.guard.Add(r.Context(), relations.Subscription, userID, authorID); err != nil {
		writeError(w, err, "subscribe")
		return
	}
	slog.Info("subscribed", "user_id", userID, "author_id", authorID)

	sub, err := h.store.GetSubscription(r.Context(), userID, authorID, recipesLimit(r))
	if err != nil {
		writeError(w, err, "query subscription")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, sub)
}

// Unsubscribe handles DELETE /api/users/{id}/subscribe
func (h *SubscriptionHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	authorID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	userID := middleware.UserID(r.Context())

	if err := h.guard.Remove(r.Context(), relations.Subscription, userID, authorID); err != nil {
		writeError(w, err, "unsubscribe")
		return
	}
	slog.Info("unsubscribed", "user_id", userID, "author_id", authorID)
	w.WriteHeader(http.StatusNoContent)
}
