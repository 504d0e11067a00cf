// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recipes

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// MaxNameLength is the longest recipe name accepted
	MaxNameLength = 200
	// MaxCookingTime is the longest cooking time accepted, in minutes
	MaxCookingTime = 32767
)

// IngredientAmount is one proposed ingredient line
type IngredientAmount struct {
	IngredientID int64
	Amount       float64
}

// Draft is a proposed composition as received from the caller.
// A nil CookingTime means the field was not supplied (PATCH).
type Draft struct {
	TagIDs      []int64
	Ingredients []IngredientAmount
	CookingTime *int
}

// Composition is a validated tag set and ingredient list, ready for the Writer
type Composition struct {
	TagIDs      []int64
	Ingredients []IngredientAmount
}

// Catalog resolves reference data ids. Both methods return the ids that
// do not exist, in input order.
type Catalog interface {
	MissingTags(ctx context.Context, ids []int64) ([]int64, error)
	MissingIngredients(ctx context.Context, ids []int64) ([]int64, error)
}

// Validator checks a Draft against the composition rules before any write
type Validator struct {
	catalog Catalog
}

func NewValidator(catalog Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate returns the first rule the draft breaks, as a *ValidationError,
// or the accepted Composition. Duplicates are detected by id equality alone.
func (v *Validator) Validate(ctx context.Context, d Draft) (Composition, error) {
	if len(d.TagIDs) == 0 {
		return Composition{}, invalid(FieldTags, ErrEmptyTagList)
	}
	seenTags := make(map[int64]struct{}, len(d.TagIDs))
	for _, id := range d.TagIDs {
		if _, dup := seenTags[id]; dup {
			return Composition{}, invalidID(FieldTags, ErrDuplicateTag, id)
		}
		seenTags[id] = struct{}{}
	}

	if len(d.Ingredients) == 0 {
		return Composition{}, invalid(FieldIngredients, ErrEmptyIngredientList)
	}
	seenIngredients := make(map[int64]struct{}, len(d.Ingredients))
	ingredientIDs := make([]int64, 0, len(d.Ingredients))
	for _, item := range d.Ingredients {
		if _, dup := seenIngredients[item.IngredientID]; dup {
			return Composition{}, invalidID(FieldIngredients, ErrDuplicateIngredient, item.IngredientID)
		}
		seenIngredients[item.IngredientID] = struct{}{}
		ingredientIDs = append(ingredientIDs, item.IngredientID)
	}
	for _, item := range d.Ingredients {
		// !(x > 0) also rejects NaN
		if !(item.Amount > 0) {
			return Composition{}, invalidID(FieldAmount, ErrNonPositiveAmount, item.IngredientID)
		}
		if math.IsInf(item.Amount, 1) {
			return Composition{}, invalidID(FieldAmount, ErrNonFiniteAmount, item.IngredientID)
		}
	}

	if d.CookingTime != nil {
		switch {
		case *d.CookingTime <= 0:
			return Composition{}, invalid(FieldCookingTime, ErrNonPositiveCookingTime)
		case *d.CookingTime > MaxCookingTime:
			return Composition{}, invalid(FieldCookingTime, ErrCookingTimeTooLong)
		}
	}

	missing, err := v.catalog.MissingTags(ctx, d.TagIDs)
	if err != nil {
		return Composition{}, fmt.Errorf("failed to resolve tags: %w", err)
	}
	if len(missing) > 0 {
		return Composition{}, invalidID(FieldTags, ErrUnknownTag, missing[0])
	}

	missing, err = v.catalog.MissingIngredients(ctx, ingredientIDs)
	if err != nil {
		return Composition{}, fmt.Errorf("failed to resolve ingredients: %w", err)
	}
	if len(missing) > 0 {
		return Composition{}, invalidID(FieldIngredients, ErrUnknownIngredient, missing[0])
	}

	return Composition{
		TagIDs:      append([]int64(nil), d.TagIDs...),
		Ingredients: append([]IngredientAmount(nil), d.Ingredients...),
	}, nil
}

// CheckScalars validates name and text. On create both are required;
// on update only supplied fields are checked.
func CheckScalars(name, text *string, create bool) error {
	if name == nil || strings.TrimSpace(*name) == "" {
		if create || name != nil {
			return invalid(FieldName, ErrFieldRequired)
		}
	} else if utf8.RuneCountInString(*name) > MaxNameLength {
		return invalid(FieldName, ErrNameTooLong)
	}

	if text == nil || strings.TrimSpace(*text) == "" {
		if create || text != nil {
			return invalid(FieldText, ErrFieldRequired)
		}
	}
	return nil
}

// CheckImage validates the image field. On create it is required; on
// update an explicit empty value is rejected and an omitted one is kept.
func CheckImage(image *string, create bool) error {
	if image == nil {
		if create {
			return invalid(FieldImage, ErrFieldRequired)
		}
		return nil
	}
	if strings.TrimSpace(*image) == "" {
		return invalid(FieldImage, ErrFieldRequired)
	}
	return nil
}
