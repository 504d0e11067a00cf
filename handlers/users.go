// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/foodgram/auth"
	"github.com/danielhkuo/foodgram/cliparse"
	"github.com/danielhkuo/foodgram/middleware"
	"github.com/danielhkuo/foodgram/models"
	"github.com/danielhkuo/foodgram/store"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const (
	maxEmailLength    = 254
	maxUsernameLength = 150
	maxPersonName     = 150
)

type UserHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewUserHandler(s *store.Store, cfg cliparse.Config) *UserHandler {
	return &UserHandler{store: s, cfg: cfg}
}

// Register handles POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if field, msg := validateRegistration(req); field != "" {
		middleware.FieldError(w, field, msg)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := models.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hash,
	}
	user.ID, err = h.store.CreateUser(r.Context(), user)
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		middleware.FieldError(w, "email", err.Error())
		return
	case errors.Is(err, store.ErrUsernameTaken):
		middleware.FieldError(w, "username", err.Error())
		return
	case err != nil:
		writeError(w, err, "create user")
		return
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	middleware.JSONResponse(w, http.StatusCreated, user)
}

func validateRegistration(req models.CreateUserRequest) (field, msg string) {
	switch {
	case req.Email == "":
		return "email", "this field is required"
	case utf8.RuneCountInString(req.Email) > maxEmailLength:
		return "email", "email is too long"
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return "email", "enter a valid email address"
	}

	switch {
	case req.Username == "":
		return "username", "this field is required"
	case utf8.RuneCountInString(req.Username) > maxUsernameLength:
		return "username", "username is too long"
	case !usernamePattern.MatchString(req.Username):
		return "username", "username may contain only letters, digits and @.+-_"
	case req.Username == "me":
		return "username", "this username is reserved"
	}

	for _, f := range []struct{ name, value string }{
		{"first_name", req.FirstName},
		{"last_name", req.LastName},
	} {
		if strings.TrimSpace(f.value) == "" {
			return f.name, "this field is required"
		}
		if utf8.RuneCountInString(f.value) > maxPersonName {
			return f.name, "value is too long"
		}
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return "password", err.Error()
	}
	return "", ""
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parsePagination(r, h.cfg.PageSize)
	profiles, count, err := h.store.ListProfiles(r.Context(), middleware.UserID(r.Context()), p.limit, p.offset())
	if err != nil {
		writeError(w, err, "list users")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, newPage(r, p, count, profiles))
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	profile, err := h.store.GetProfile(r.Context(), id, middleware.UserID(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeError(w, err, "query user")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, profile)
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	profile, err := h.store.GetProfile(r.Context(), userID, userID)
	if err != nil {
		writeError(w, err, "query user")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, profile)
}

// SetPassword handles POST /api/users/set_password
func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.SetPasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	userID := middleware.UserID(r.Context())
	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err, "query user")
		return
	}

	if err := auth.CheckPassword(user.Password, req.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			middleware.FieldError(w, "current_password", "invalid password")
			return
		}
		writeError(w, err, "check password")
		return
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		middleware.FieldError(w, "new_password", err.Error())
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, err, "hash password")
		return
	}
	if err := h.store.SetPassword(r.Context(), userID, hash); err != nil {
		writeError(w, err, "update password")
		return
	}

	slog.Info("password changed", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

// Login handles POST /api/auth/token/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if errors.Is(err, store.ErrNotFound) {
		middleware.FieldError(w, "non_field_errors", "unable to log in with provided credentials")
		return
	}
	if err != nil {
		writeError(w, err, "query user")
		return
	}
	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			middleware.FieldError(w, "non_field_errors", "unable to log in with provided credentials")
			return
		}
		writeError(w, err, "check password")
		return
	}

	token, err := auth.GenerateToken()
	if err != nil {
		writeError(w, err, "generate token")
		return
	}
	if err := h.store.CreateToken(r.Context(), user.ID, token); err != nil {
		writeError(w, err, "store token")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{AuthToken: token})
}

// Logout handles POST /api/auth/token/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteToken(r.Context(), middleware.Token(r.Context())); err != nil {
		writeError(w, err, "delete token")
		return
	}
	slog.Info("user logged out", "user_id", middleware.UserID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
