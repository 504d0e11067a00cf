// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Request types

type CreateUserRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password"`
	CurrentPassword string `json:"current_password"`
}

type IngredientAmountRequest struct {
	ID     int64    `json:"id"`
	Amount Quantity `json:"amount"`
}

// RecipeRequest is the body of POST and PATCH /api/recipes.
// Pointer fields distinguish "not supplied" from zero values on PATCH.
type RecipeRequest struct {
	Tags        []int64                   `json:"tags"`
	Ingredients []IngredientAmountRequest `json:"ingredients"`
	Image       *string                   `json:"image"`
	Name        *string                   `json:"name"`
	Text        *string                   `json:"text"`
	CookingTime *int                      `json:"cooking_time"`
}

// Quantity is an ingredient amount. Clients send either a JSON number or
// a numeric string ("2.5").
type Quantity float64

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("amount %q is not a number", s)
		}
		*q = Quantity(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*q = Quantity(f)
	return nil
}

// Response types

type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// Page is the envelope returned by paginated list endpoints
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Domain types

type User struct {
	ID        int64  `json:"id" db:"id"`
	Email     string `json:"email" db:"email"`
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Password  string `json:"-" db:"password"` // bcrypt hash, never exposed
}

// UserProfile is a user as seen by another (possibly anonymous) user
type UserProfile struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	Username     string `json:"username" db:"username"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	IsSubscribed bool   `json:"is_subscribed" db:"is_subscribed"`
}

type Tag struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"`
	Slug  string `json:"slug" db:"slug"`
}

type Ingredient struct {
	ID              int64  `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	MeasurementUnit string `json:"measurement_unit" db:"measurement_unit"`
}

// RecipeIngredient is one ingredient line of a recipe. ID is the ingredient id.
type RecipeIngredient struct {
	ID              int64   `json:"id" db:"id"`
	Name            string  `json:"name" db:"name"`
	MeasurementUnit string  `json:"measurement_unit" db:"measurement_unit"`
	Amount          float64 `json:"amount" db:"amount"`
}

type Recipe struct {
	ID               int64              `json:"id"`
	Tags             []Tag              `json:"tags"`
	Author           UserProfile        `json:"author"`
	Ingredients      []RecipeIngredient `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
}

// RecipeShort is the compact form used by favorite, cart and subscription responses
type RecipeShort struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Image       string `json:"image" db:"image"`
	CookingTime int    `json:"cooking_time" db:"cooking_time"`
}

// Subscription is a followed author with a preview of their recipes
type Subscription struct {
	UserProfile
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int           `json:"recipes_count"`
}

// Error responses

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DetailResponse mirrors the {"errors": "..."} body of rejected relation toggles
type DetailResponse struct {
	Errors string `json:"errors"`
}
