// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recipes

import (
	"errors"
	"fmt"
)

// Field names carried by ValidationError
const (
	FieldTags        = "tags"
	FieldIngredients = "ingredients"
	FieldAmount      = "amount"
	FieldCookingTime = "cooking_time"
	FieldName        = "name"
	FieldText        = "text"
	FieldImage       = "image"
)

// Validation failures
var (
	ErrEmptyTagList           = errors.New("at least one tag is required")
	ErrDuplicateTag           = errors.New("tags must be unique")
	ErrEmptyIngredientList    = errors.New("at least one ingredient is required")
	ErrDuplicateIngredient    = errors.New("ingredients must be unique")
	ErrNonPositiveAmount      = errors.New("ingredient amount must be greater than zero")
	ErrNonFiniteAmount        = errors.New("ingredient amount must be a finite number")
	ErrNonPositiveCookingTime = errors.New("cooking time must be at least 1 minute")
	ErrCookingTimeTooLong     = fmt.Errorf("cooking time must be at most %d minutes", MaxCookingTime)
	ErrUnknownTag             = errors.New("tag does not exist")
	ErrUnknownIngredient      = errors.New("ingredient does not exist")
	ErrFieldRequired          = errors.New("this field is required")
	ErrNameTooLong            = errors.New("name must be at most 200 characters")
)

// State and referential failures
var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrAuthorMismatch     = errors.New("only the author can change this recipe")
	ErrIngredientNotFound = errors.New("ingredient not found")
)

// ValidationError ties a validation failure to the offending field and,
// where there is one, the offending id.
type ValidationError struct {
	Field string
	Err   error
	ID    int64
}

func (e *ValidationError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s: %v (id %d)", e.Field, e.Err, e.ID)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func invalidID(field string, err error, id int64) *ValidationError {
	return &ValidationError{Field: field, Err: err, ID: id}
}
