// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/foodgram/cliparse"
	"github.com/danielhkuo/foodgram/seed"
	"github.com/danielhkuo/foodgram/store"
)

func newSeedCmd(config func() cliparse.Config) *cobra.Command {
	var files seed.Files

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference tags and ingredients",
		Long: `Loads ingredients from a "name;unit" CSV file and tags from a YAML file.
Rows that already exist are skipped, so seeding twice is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if files.Ingredients == "" && files.Tags == "" {
				return errors.New("nothing to seed: pass --ingredients and/or --tags")
			}

			cfg := config()
			conn, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			res, err := seed.Run(cmd.Context(), store.New(conn, cfg.MediaURL), files)
			if err != nil {
				return err
			}

			slog.Info("seed complete",
				"ingredients_read", res.IngredientsRead, "ingredients_inserted", res.IngredientsInserted,
				"tags_read", res.TagsRead, "tags_inserted", res.TagsInserted)
			fmt.Fprintf(cmd.OutOrStdout(), "ingredients: %d new of %d\ntags: %d new of %d\n",
				res.IngredientsInserted, res.IngredientsRead, res.TagsInserted, res.TagsRead)
			return nil
		},
	}

	cmd.Flags().StringVar(&files.Ingredients, "ingredients", "", "Ingredient CSV file (name;unit per line)")
	cmd.Flags().StringVar(&files.Tags, "tags", "", "Tag YAML file")
	return cmd
}
