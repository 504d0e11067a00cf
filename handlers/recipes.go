// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/foodgram/cliparse"
	"github.com/danielhkuo/foodgram/middleware"
	"github.com/danielhkuo/foodgram/models"
	"github.com/danielhkuo/foodgram/recipes"
	"github.com/danielhkuo/foodgram/relations"
	"github.com/danielhkuo/foodgram/shopping"
	"github.com/danielhkuo/foodgram/store"
)

type RecipeHandler struct {
	store    *store.Store
	service  *recipes.Service
	guard    *relations.Guard
	shopping *shopping.Aggregator
	cfg      cliparse.Config
}

func NewRecipeHandler(s *store.Store, svc *recipes.Service, guard *relations.Guard, agg *shopping.Aggregator, cfg cliparse.Config) *RecipeHandler {
	return &RecipeHandler{store: s, service: svc, guard: guard, shopping: agg, cfg: cfg}
}

// List handles GET /api/recipes
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RecipeFilter{
		TagSlugs:       q["tags"],
		Favorited:      q.Get("is_favorited") == "1",
		InShoppingCart: q.Get("is_in_shopping_cart") == "1",
	}
	if author := q.Get("author"); author != "" {
		id, err := strconv.ParseInt(author, 10, 64)
		if err != nil {
			middleware.FieldError(w, "author", "author must be a user id")
			return
		}
		filter.AuthorID = id
	}

	p := parsePagination(r, h.cfg.PageSize)
	list, count, err := h.store.ListRecipes(r.Context(), filter, middleware.UserID(r.Context()), p.limit, p.offset())
	if err != nil {
		writeError(w, err, "list recipes")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, newPage(r, p, count, list))
}

// Get handles GET /api/recipes/{id}
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Recipe not found")
		return
	}

	recipe, err := h.store.GetRecipe(r.Context(), id, middleware.UserID(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		writeError(w, err, "query recipe")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, recipe)
}

// Create handles POST /api/recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.RecipeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	recipe, err := h.service.CreateRecipe(r.Context(), middleware.UserID(r.Context()), toInput(req))
	if err != nil {
		writeError(w, err, "create recipe")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, recipe)
}

// Update handles PATCH /api/recipes/{id}
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Recipe not found")
		return
	}

	var req models.RecipeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	recipe, err := h.service.UpdateRecipe(r.Context(), id, middleware.UserID(r.Context()), toInput(req))
	if err != nil {
		writeError(w, err, "update recipe")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, recipe)
}

// Delete handles DELETE /api/recipes/{id}
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Recipe not found")
		return
	}

	if err := h.service.DeleteRecipe(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		writeError(w, err, "delete recipe")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddFavorite handles POST /api/recipes/{id}/favorite
func (h *RecipeHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.addRelation(w, r, relations.Favorite)
}

// RemoveFavorite handles DELETE /api/recipes/{id}/favorite
func (h *RecipeHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.removeRelation(w, r, relations.Favorite)
}

// AddToCart handles POST /api/recipes/{id}/shopping_cart
func (h *RecipeHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.addRelation(w, r, relations.ShoppingCart)
}

// RemoveFromCart handles DELETE /api/recipes/{id}/shopping_cart
func (h *RecipeHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.removeRelation(w, r, relations.ShoppingCart)
}

func (h *RecipeHandler) addRelation(w http.ResponseWriter, r *http.Request, kind relations.Kind) {
	recipeID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Recipe not found")
		return
	}
	userID := middleware.UserID(r.Context())

	if err := h.guard.Add(r.Context(), kind, userID, recipeID); err != nil {
		writeError(w, err, "add "+kind.String())
		return
	}
	slog.Info(kind.String()+" added", "user_id", userID, "recipe_id", recipeID)

	short, err := h.store.GetRecipeShort(r.Context(), recipeID)
	if err != nil {
		writeError(w, err, "query recipe")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, short)
}

func (h *RecipeHandler) removeRelation(w http.ResponseWriter, r *http.Request, kind relations.Kind) {
	recipeID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Recipe not found")
		return
	}
	userID := middleware.UserID(r.Context())

	if err := h.guard.Remove(r.Context(), kind, userID, recipeID); err != nil {
		writeError(w, err, "remove "+kind.String())
		return
	}
	slog.Info(kind.String()+" removed", "user_id", userID, "recipe_id", recipeID)
	w.WriteHeader(http.StatusNoContent)
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart
func (h *RecipeHandler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	items, err := h.shopping.List(r.Context(), userID)
	if err != nil {
		writeError(w, err, "aggregate shopping list")
		return
	}

	var buf bytes.Buffer
	if err := shopping.WriteCSV(&buf, items); err != nil {
		writeError(w, err, "render shopping list")
		return
	}

	w.Header().Set("Content-Type", shopping.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+shopping.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to send shopping list", "error", err)
		return
	}
	slog.Info("shopping list downloaded", "user_id", userID, "items", len(items))
}

func toInput(req models.RecipeRequest) recipes.Input {
	in := recipes.Input{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
	}
	for _, item := range req.Ingredients {
		in.Ingredients = append(in.Ingredients, recipes.IngredientAmount{
			IngredientID: item.ID,
			Amount:       float64(item.Amount),
		})
	}
	return in
}
