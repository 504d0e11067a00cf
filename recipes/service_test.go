// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recipes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/foodgram/recipes"
	"github.com/danielhkuo/foodgram/store"
	"github.com/danielhkuo/foodgram/testutil"
)

type memoryImages struct {
	saved   []string
	removed []string
	err     error
}

func (m *memoryImages) Save(data string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	path := "recipes/" + data + ".png"
	m.saved = append(m.saved, path)
	return path, nil
}

func (m *memoryImages) Remove(path string) error {
	m.removed = append(m.removed, path)
	return nil
}

func newService(f fixture, images *memoryImages) *recipes.Service {
	s := store.New(f.conn, "/media/")
	return recipes.NewService(recipes.NewValidator(s), recipes.NewWriter(f.conn), s, images)
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func TestCreateRecipe(t *testing.T) {
	f := setup(t)
	images := &memoryImages{}
	svc := newService(f, images)

	recipe, err := svc.CreateRecipe(context.Background(), f.author, recipes.Input{
		Name:        strp("Pancakes"),
		Text:        strp("Whisk and fry."),
		Image:       strp("pancakes"),
		CookingTime: intp(20),
		TagIDs:      []int64{f.tags[0]},
		Ingredients: []recipes.IngredientAmount{
			{IngredientID: f.flour, Amount: 250},
			{IngredientID: f.sugar, Amount: 1.5},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", recipe.Name)
	assert.Equal(t, 20, recipe.CookingTime)
	assert.Equal(t, "/media/recipes/pancakes.png", recipe.Image)
	assert.Equal(t, f.author, recipe.Author.ID)
	assert.False(t, recipe.IsFavorited)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, f.tags[0], recipe.Tags[0].ID)
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "flour", recipe.Ingredients[0].Name)
	assert.Equal(t, 1.5, recipe.Ingredients[1].Amount)
	assert.Empty(t, images.removed)
}

func TestCreateRecipeRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   func(f fixture) recipes.Input
		wantErr error
	}{
		{
			name: "duplicate ingredient with different amounts",
			input: func(f fixture) recipes.Input {
				return recipes.Input{
					Name: strp("Soup"), Text: strp("Boil."), CookingTime: intp(5), TagIDs: f.tags[:1],
					Ingredients: []recipes.IngredientAmount{{IngredientID: f.salt, Amount: 2}, {IngredientID: f.salt, Amount: 3}},
				}
			},
			wantErr: recipes.ErrDuplicateIngredient,
		},
		{
			name: "zero cooking time",
			input: func(f fixture) recipes.Input {
				return recipes.Input{
					Name: strp("Soup"), Text: strp("Boil."), CookingTime: intp(0), TagIDs: f.tags[:1],
					Ingredients: []recipes.IngredientAmount{{IngredientID: f.salt, Amount: 2}},
				}
			},
			wantErr: recipes.ErrNonPositiveCookingTime,
		},
		{
			name: "negative cooking time",
			input: func(f fixture) recipes.Input {
				return recipes.Input{
					Name: strp("Soup"), Text: strp("Boil."), CookingTime: intp(-1), TagIDs: f.tags[:1],
					Ingredients: []recipes.IngredientAmount{{IngredientID: f.salt, Amount: 2}},
				}
			},
			wantErr: recipes.ErrNonPositiveCookingTime,
		},
		{
			name: "missing cooking time",
			input: func(f fixture) recipes.Input {
				return recipes.Input{
					Name: strp("Soup"), Text: strp("Boil."), TagIDs: f.tags[:1],
					Ingredients: []recipes.IngredientAmount{{IngredientID: f.salt, Amount: 2}},
				}
			},
			wantErr: recipes.ErrNonPositiveCookingTime,
		},
		{
			name: "unknown ingredient",
			input: func(f fixture) recipes.Input {
				return recipes.Input{
					Name: strp("Soup"), Text: strp("Boil."), CookingTime: intp(5), TagIDs: f.tags[:1],
					Ingredients: []recipes.IngredientAmount{{IngredientID: 999, Amount: 2}},
				}
			},
			wantErr: recipes.ErrUnknownIngredient,
		},
		{
			name: "missing name",
			input: func(f fixture) recipes.Input {
				return recipes.Input{
					Text: strp("Boil."), CookingTime: intp(5), TagIDs: f.tags[:1],
					Ingredients: []recipes.IngredientAmount{{IngredientID: f.salt, Amount: 2}},
				}
			},
			wantErr: recipes.ErrFieldRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			images := &memoryImages{}
			svc := newService(f, images)

			in := tt.input(f)
			in.Image = strp("photo")
			_, err := svc.CreateRecipe(context.Background(), f.author, in)
			require.ErrorIs(t, err, tt.wantErr)

			assert.Zero(t, testutil.CountRows(t, f.conn, "recipe", ""))
			assert.Empty(t, images.saved, "images are stored only after validation")
		})
	}
}

func TestCreateRecipeRequiresImage(t *testing.T) {
	for _, image := range []*string{nil, strp(""), strp("  ")} {
		f := setup(t)
		images := &memoryImages{}
		svc := newService(f, images)

		_, err := svc.CreateRecipe(context.Background(), f.author, recipes.Input{
			Name: strp("Soup"), Text: strp("Boil."), Image: image, CookingTime: intp(5), TagIDs: f.tags[:1],
			Ingredients: []recipes.IngredientAmount{{IngredientID: f.salt, Amount: 2}},
		})
		require.ErrorIs(t, err, recipes.ErrFieldRequired)
		var verr *recipes.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, recipes.FieldImage, verr.Field)
		assert.Zero(t, testutil.CountRows(t, f.conn, "recipe", ""))
		assert.Empty(t, images.saved)
	}
}

func TestCreateRecipeImageFailure(t *testing.T) {
	f := setup(t)
	errBadImage := errors.New("bad image")
	svc := newService(f, &memoryImages{err: errBadImage})

	_, err := svc.CreateRecipe(context.Background(), f.author, recipes.Input{
		Name: strp("Soup"), Text: strp("Boil."), Image: strp("x"), CookingTime: intp(5), TagIDs: f.tags[:1],
		Ingredients: []recipes.IngredientAmount{{IngredientID: f.salt, Amount: 2}},
	})
	require.ErrorIs(t, err, errBadImage)
	assert.Zero(t, testutil.CountRows(t, f.conn, "recipe", ""))
}

func TestCreateRecipeRemovesImageOnWriteFailure(t *testing.T) {
	f := setup(t)
	images := &memoryImages{}
	svc := recipes.NewService(recipes.NewValidator(staleCatalog{}), recipes.NewWriter(f.conn), store.New(f.conn, "/media/"), images)

	// The ingredient passes validation but is gone by the time of the write
	_, err := f.conn.Exec(f.conn.Rebind(`DELETE FROM ingredient WHERE id = ?`), f.sugar)
	require.NoError(t, err)

	_, err = svc.CreateRecipe(context.Background(), f.author, recipes.Input{
		Name: strp("Soup"), Text: strp("Boil."), Image: strp("soup"), CookingTime: intp(5), TagIDs: f.tags[:1],
		Ingredients: []recipes.IngredientAmount{{IngredientID: f.sugar, Amount: 2}},
	})
	require.ErrorIs(t, err, recipes.ErrIngredientNotFound)
	assert.Equal(t, []string{"recipes/soup.png"}, images.removed)
}

// staleCatalog reports every id as present, like a lookup made just before
// a concurrent delete.
type staleCatalog struct{}

func (staleCatalog) MissingTags(context.Context, []int64) ([]int64, error)        { return nil, nil }
func (staleCatalog) MissingIngredients(context.Context, []int64) ([]int64, error) { return nil, nil }

func TestUpdateRecipe(t *testing.T) {
	f := setup(t)
	images := &memoryImages{}
	svc := newService(f, images)
	ctx := context.Background()

	id := testutil.CreateTestRecipe(t, f.conn, f.author, "Cake", []int64{f.tags[0]}, []testutil.Line{
		{IngredientID: f.salt, Amount: 1},
		{IngredientID: f.sugar, Amount: 100},
	})

	recipe, err := svc.UpdateRecipe(ctx, id, f.author, recipes.Input{
		Image:       strp("cake"),
		CookingTime: intp(45),
		TagIDs:      []int64{f.tags[1]},
		Ingredients: []recipes.IngredientAmount{{IngredientID: f.flour, Amount: 300}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Cake", recipe.Name)
	assert.Equal(t, 45, recipe.CookingTime)
	assert.Equal(t, "/media/recipes/cake.png", recipe.Image)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, f.tags[1], recipe.Tags[0].ID)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, f.flour, recipe.Ingredients[0].ID)

	t.Run("omitted image is kept", func(t *testing.T) {
		recipe, err := svc.UpdateRecipe(ctx, id, f.author, recipes.Input{
			TagIDs:      []int64{f.tags[1]},
			Ingredients: []recipes.IngredientAmount{{IngredientID: f.flour, Amount: 300}},
		})
		require.NoError(t, err)
		assert.Equal(t, "/media/recipes/cake.png", recipe.Image)
	})

	t.Run("empty image is rejected", func(t *testing.T) {
		_, err := svc.UpdateRecipe(ctx, id, f.author, recipes.Input{
			Image:       strp(""),
			TagIDs:      []int64{f.tags[1]},
			Ingredients: []recipes.IngredientAmount{{IngredientID: f.flour, Amount: 300}},
		})
		require.ErrorIs(t, err, recipes.ErrFieldRequired)
		assert.Empty(t, images.removed)
	})
}

func TestUpdateRecipeRejects(t *testing.T) {
	f := setup(t)
	images := &memoryImages{}
	svc := newService(f, images)
	ctx := context.Background()

	id := testutil.CreateTestRecipe(t, f.conn, f.author, "Cake", []int64{f.tags[0]}, []testutil.Line{{IngredientID: f.salt, Amount: 1}})
	valid := recipes.Input{TagIDs: f.tags[:1], Ingredients: []recipes.IngredientAmount{{IngredientID: f.sugar, Amount: 1}}}

	tests := []struct {
		name    string
		recipe  int64
		actor   int64
		input   recipes.Input
		wantErr error
	}{
		{"not the author", id, f.other, valid, recipes.ErrAuthorMismatch},
		{"missing recipe", 999, f.author, valid, recipes.ErrRecipeNotFound},
		{"author checked before validation", id, f.other, recipes.Input{}, recipes.ErrAuthorMismatch},
		{"ingredients omitted", id, f.author, recipes.Input{TagIDs: f.tags[:1]}, recipes.ErrEmptyIngredientList},
		{"zero cooking time", id, f.author, recipes.Input{TagIDs: valid.TagIDs, Ingredients: valid.Ingredients, CookingTime: intp(0)}, recipes.ErrNonPositiveCookingTime},
		{"blank name", id, f.author, recipes.Input{TagIDs: valid.TagIDs, Ingredients: valid.Ingredients, Name: strp(" ")}, recipes.ErrFieldRequired},
		{"cooking time past the limit", id, f.author, recipes.Input{TagIDs: valid.TagIDs, Ingredients: valid.Ingredients, CookingTime: intp(recipes.MaxCookingTime + 1)}, recipes.ErrCookingTimeTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateRecipe(ctx, tt.recipe, tt.actor, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, []line{{f.salt, 1}}, storedLines(t, f.conn, id))
}

func TestDeleteRecipe(t *testing.T) {
	f := setup(t)
	svc := newService(f, &memoryImages{})
	ctx := context.Background()

	id := testutil.CreateTestRecipe(t, f.conn, f.author, "Cake", []int64{f.tags[0]}, []testutil.Line{{IngredientID: f.salt, Amount: 1}})

	assert.ErrorIs(t, svc.DeleteRecipe(ctx, id, f.other), recipes.ErrAuthorMismatch)
	require.NoError(t, svc.DeleteRecipe(ctx, id, f.author))
	assert.ErrorIs(t, svc.DeleteRecipe(ctx, id, f.author), recipes.ErrRecipeNotFound)
}
