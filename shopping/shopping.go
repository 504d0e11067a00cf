// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package shopping

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	sq "github.com/Masterminds/squirrel"
	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/foodgram/db"
)

// Filename is the attachment name of the exported list
const Filename = "Shoppingcart.csv"

// ContentType of WriteCSV output
const ContentType = "text/csv; charset=utf-8"

const bom = "\ufeff"

// Item is the total amount of one ingredient in one unit
type Item struct {
	Name   string  `db:"name"`
	Amount float64 `db:"total_amount"`
	Unit   string  `db:"measurement_unit"`
}

// Aggregator sums the ingredients of every recipe in a user's cart
type Aggregator struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

func NewAggregator(conn *sqlx.DB) *Aggregator {
	return &Aggregator{db: conn, sb: db.Builder(conn)}
}

// List groups the cart's ingredient lines by (name, unit) and sums the
// amounts. Items are ordered by name then unit. An empty cart yields an
// empty list.
func (a *Aggregator) List(ctx context.Context, userID int64) ([]Item, error) {
	query, args, err := a.sb.Select("i.name", "i.measurement_unit", "SUM(ri.amount) AS total_amount").
		From("shopping_cart c").
		Join("recipe_ingredient ri ON ri.recipe_id = c.recipe_id").
		Join("ingredient i ON i.id = ri.ingredient_id").
		Where(sq.Eq{"c.user_id": userID}).
		GroupBy("i.name", "i.measurement_unit").
		OrderBy("i.name", "i.measurement_unit").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build shopping list query: %w", err)
	}

	items := []Item{}
	if err := a.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping list: %w", err)
	}
	return items, nil
}

// WriteCSV renders items as name,amount,unit rows after a UTF-8 byte
// order mark. Amounts carry no trailing zeros.
func WriteCSV(w io.Writer, items []Item) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("failed to write shopping list: %w", err)
	}

	cw := csv.NewWriter(w)
	for _, item := range items {
		if err := cw.Write([]string{item.Name, humanize.Ftoa(item.Amount), item.Unit}); err != nil {
			return fmt.Errorf("failed to write shopping list: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write shopping list: %w", err)
	}
	return nil
}
