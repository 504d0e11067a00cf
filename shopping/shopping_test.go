// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package shopping_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/foodgram/shopping"
	"github.com/danielhkuo/foodgram/testutil"
)

func TestListEmptyCart(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ann, _ := testutil.CreateTestUser(t, conn, "ann")

	items, err := shopping.NewAggregator(conn).List(context.Background(), ann)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestListSumsByNameAndUnit(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ann, _ := testutil.CreateTestUser(t, conn, "ann")
	bob, _ := testutil.CreateTestUser(t, conn, "bob")
	tag := testutil.CreateTestTag(t, conn, "Dinner")

	salt := testutil.CreateTestIngredient(t, conn, "Salt", "g")
	// Same name, different unit: a separate line
	saltPinch := testutil.CreateTestIngredient(t, conn, "Salt", "pinch")
	// Same name and unit under another id: merged
	saltDup := testutil.CreateTestIngredient(t, conn, "Salt", "g")
	milk := testutil.CreateTestIngredient(t, conn, "Milk", "ml")

	soup := testutil.CreateTestRecipe(t, conn, bob, "Soup", []int64{tag}, []testutil.Line{
		{IngredientID: salt, Amount: 5},
		{IngredientID: milk, Amount: 0.25},
	})
	stew := testutil.CreateTestRecipe(t, conn, bob, "Stew", []int64{tag}, []testutil.Line{
		{IngredientID: salt, Amount: 10},
		{IngredientID: saltPinch, Amount: 1},
		{IngredientID: milk, Amount: 0.5},
	})
	pie := testutil.CreateTestRecipe(t, conn, bob, "Pie", []int64{tag}, []testutil.Line{
		{IngredientID: saltDup, Amount: 2.5},
	})
	notInCart := testutil.CreateTestRecipe(t, conn, bob, "Cake", []int64{tag}, []testutil.Line{
		{IngredientID: salt, Amount: 100},
	})
	testutil.AddTestRelation(t, conn, "shopping_cart", ann, soup)
	testutil.AddTestRelation(t, conn, "shopping_cart", ann, stew)
	testutil.AddTestRelation(t, conn, "shopping_cart", ann, pie)
	testutil.AddTestRelation(t, conn, "shopping_cart", bob, notInCart)

	items, err := shopping.NewAggregator(conn).List(context.Background(), ann)
	require.NoError(t, err)

	assert.Equal(t, []shopping.Item{
		{Name: "Milk", Amount: 0.75, Unit: "ml"},
		{Name: "Salt", Amount: 17.5, Unit: "g"},
		{Name: "Salt", Amount: 1, Unit: "pinch"},
	}, items)
}

func TestListSaltExample(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ann, _ := testutil.CreateTestUser(t, conn, "ann")
	tag := testutil.CreateTestTag(t, conn, "Dinner")
	salt := testutil.CreateTestIngredient(t, conn, "Salt", "g")

	for name, amount := range map[string]float64{"Soup": 5, "Stew": 10} {
		id := testutil.CreateTestRecipe(t, conn, ann, name, []int64{tag}, []testutil.Line{{IngredientID: salt, Amount: amount}})
		testutil.AddTestRelation(t, conn, "shopping_cart", ann, id)
	}

	items, err := shopping.NewAggregator(conn).List(context.Background(), ann)
	require.NoError(t, err)
	assert.Equal(t, []shopping.Item{{Name: "Salt", Amount: 15, Unit: "g"}}, items)
}

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name  string
		items []shopping.Item
		want  string
	}{
		{"empty", nil, "\ufeff"},
		{
			name: "amounts without trailing zeros",
			items: []shopping.Item{
				{Name: "Salt", Amount: 15, Unit: "g"},
				{Name: "Milk", Amount: 0.75, Unit: "ml"},
			},
			want: "\ufeffSalt,15,g\nMilk,0.75,ml\n",
		},
		{
			name:  "quoted names",
			items: []shopping.Item{{Name: "Salt, coarse", Amount: 2.5, Unit: "g"}},
			want:  "\ufeff\"Salt, coarse\",2.5,g\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, shopping.WriteCSV(&buf, tt.items))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
