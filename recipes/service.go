// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recipes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/foodgram/models"
)

// Loader materializes a recipe as seen by a viewer
type Loader interface {
	GetRecipe(ctx context.Context, id, viewerID int64) (*models.Recipe, error)
}

// ImageStore persists uploaded recipe images. Save takes the encoded image
// as sent by the client and returns the stored path.
type ImageStore interface {
	Save(data string) (string, error)
	Remove(path string) error
}

// Input is a create or update request after decoding. Nil pointers are
// fields the caller did not supply.
type Input struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	TagIDs      []int64
	Ingredients []IngredientAmount
}

// Service runs the recipe operations: validate, store the image, write,
// then read the result back for the acting user.
type Service struct {
	validator *Validator
	writer    *Writer
	loader    Loader
	images    ImageStore
}

func NewService(validator *Validator, writer *Writer, loader Loader, images ImageStore) *Service {
	return &Service{validator: validator, writer: writer, loader: loader, images: images}
}

// CreateRecipe validates in and stores a new recipe by authorID
func (s *Service) CreateRecipe(ctx context.Context, authorID int64, in Input) (*models.Recipe, error) {
	cookingTime := 0
	if in.CookingTime != nil {
		cookingTime = *in.CookingTime
	}
	comp, err := s.validator.Validate(ctx, Draft{
		TagIDs:      in.TagIDs,
		Ingredients: in.Ingredients,
		CookingTime: &cookingTime,
	})
	if err != nil {
		return nil, err
	}
	if err := CheckScalars(in.Name, in.Text, true); err != nil {
		return nil, err
	}
	if err := CheckImage(in.Image, true); err != nil {
		return nil, err
	}

	image, err := s.saveImage(in.Image)
	if err != nil {
		return nil, err
	}

	id, err := s.writer.Create(ctx, authorID, Fields{
		Name:        *in.Name,
		Text:        *in.Text,
		Image:       image,
		CookingTime: cookingTime,
	}, comp)
	if err != nil {
		s.discardImage(image)
		return nil, err
	}

	slog.Info("recipe created", "recipe_id", id, "author_id", authorID,
		"tags", len(comp.TagIDs), "ingredients", len(comp.Ingredients))

	return s.load(ctx, id, authorID)
}

// UpdateRecipe replaces the composition of recipeID and applies the
// supplied scalar fields. Only the author may update.
func (s *Service) UpdateRecipe(ctx context.Context, recipeID, actorID int64, in Input) (*models.Recipe, error) {
	if err := s.writer.CheckAuthor(ctx, recipeID, actorID); err != nil {
		return nil, err
	}

	comp, err := s.validator.Validate(ctx, Draft{
		TagIDs:      in.TagIDs,
		Ingredients: in.Ingredients,
		CookingTime: in.CookingTime,
	})
	if err != nil {
		return nil, err
	}
	if err := CheckScalars(in.Name, in.Text, false); err != nil {
		return nil, err
	}
	if err := CheckImage(in.Image, false); err != nil {
		return nil, err
	}

	patch := Patch{Name: in.Name, Text: in.Text, CookingTime: in.CookingTime}
	var image string
	if in.Image != nil {
		image, err = s.saveImage(in.Image)
		if err != nil {
			return nil, err
		}
		patch.Image = &image
	}

	if err := s.writer.Update(ctx, recipeID, actorID, patch, comp); err != nil {
		s.discardImage(image)
		return nil, err
	}

	slog.Info("recipe updated", "recipe_id", recipeID, "author_id", actorID,
		"tags", len(comp.TagIDs), "ingredients", len(comp.Ingredients))

	return s.load(ctx, recipeID, actorID)
}

// DeleteRecipe removes recipeID. Only the author may delete.
func (s *Service) DeleteRecipe(ctx context.Context, recipeID, actorID int64) error {
	if err := s.writer.Delete(ctx, recipeID, actorID); err != nil {
		return err
	}
	slog.Info("recipe deleted", "recipe_id", recipeID, "author_id", actorID)
	return nil
}

// saveImage stores an image already accepted by CheckImage
func (s *Service) saveImage(data *string) (string, error) {
	path, err := s.images.Save(*data)
	if err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) discardImage(path string) {
	if path == "" {
		return
	}
	if err := s.images.Remove(path); err != nil {
		slog.Warn("failed to remove orphaned image", "path", path, "error", err)
	}
}

func (s *Service) load(ctx context.Context, id, viewerID int64) (*models.Recipe, error) {
	recipe, err := s.loader.GetRecipe(ctx, id, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe %d: %w", id, err)
	}
	return recipe, nil
}
