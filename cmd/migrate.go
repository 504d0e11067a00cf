// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/danielhkuo/foodgram/cliparse"
)

func newMigrateCmd(config func() cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Long:  `Creates every table and index that does not exist yet. Safe to run repeatedly.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := openDB(cmd.Context(), config())
			if err != nil {
				return err
			}
			return conn.Close()
		},
	}
}
