// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/foodgram/models"
)

var (
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]{1,50}$`)
)

const maxTagName = 100

// Sink receives parsed reference data
type Sink interface {
	InsertTags(ctx context.Context, tags []models.Tag) (int, error)
	InsertIngredients(ctx context.Context, ingredients []models.Ingredient) (int, error)
}

// Files names the inputs of a seed run. Empty paths are skipped.
type Files struct {
	Ingredients string
	Tags        string
}

// Result counts rows read and rows actually inserted
type Result struct {
	IngredientsRead     int
	IngredientsInserted int
	TagsRead            int
	TagsInserted        int
}

// Run parses both files concurrently, then loads them into sink
func Run(ctx context.Context, sink Sink, files Files) (Result, error) {
	var (
		res         Result
		ingredients []models.Ingredient
		tags        []models.Tag
	)

	g, gctx := errgroup.WithContext(ctx)
	if files.Ingredients != "" {
		g.Go(func() error {
			var err error
			ingredients, err = readFile(gctx, files.Ingredients, ParseIngredients)
			return err
		})
	}
	if files.Tags != "" {
		g.Go(func() error {
			var err error
			tags, err = readFile(gctx, files.Tags, ParseTags)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	res.IngredientsRead = len(ingredients)
	res.TagsRead = len(tags)

	var err error
	if len(tags) > 0 {
		if res.TagsInserted, err = sink.InsertTags(ctx, tags); err != nil {
			return res, fmt.Errorf("failed to load tags: %w", err)
		}
	}
	if len(ingredients) > 0 {
		if res.IngredientsInserted, err = sink.InsertIngredients(ctx, ingredients); err != nil {
			return res, fmt.Errorf("failed to load ingredients: %w", err)
		}
	}

	slog.Info("seed complete",
		"tags_read", res.TagsRead,
		"tags_inserted", res.TagsInserted,
		"ingredients_read", res.IngredientsRead,
		"ingredients_inserted", res.IngredientsInserted,
	)
	return res, nil
}

func readFile[T any](ctx context.Context, name string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	items, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return items, nil
}

// ParseIngredients reads "name;unit" lines. Blank lines are skipped.
func ParseIngredients(r io.Reader) ([]models.Ingredient, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = 2
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var out []models.Ingredient
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ingredients: %w", err)
		}

		name := strings.TrimSpace(record[0])
		unit := strings.TrimSpace(record[1])
		if name == "" || unit == "" {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: ingredient name and unit are required", line)
		}
		out = append(out, models.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return out, nil
}

type tagFile struct {
	Tags []models.Tag `yaml:"tags"`
}

// ParseTags reads a YAML document of the form
//
//	tags:
//	  - {name: Breakfast, color: "#E26C2D", slug: breakfast}
func ParseTags(r io.Reader) ([]models.Tag, error) {
	var doc tagFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse tags: %w", err)
	}

	for i, tag := range doc.Tags {
		switch {
		case tag.Name == "" || utf8.RuneCountInString(tag.Name) > maxTagName:
			return nil, fmt.Errorf("tag %d: name must be 1 to %d characters", i+1, maxTagName)
		case !colorPattern.MatchString(tag.Color):
			return nil, fmt.Errorf("tag %q: color %q is not a #RRGGBB hex code", tag.Name, tag.Color)
		case !slugPattern.MatchString(tag.Slug):
			return nil, fmt.Errorf("tag %q: invalid slug %q", tag.Name, tag.Slug)
		}
	}
	return doc.Tags, nil
}
