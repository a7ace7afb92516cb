package main

import (
	"fmt"

	"spareparts-be/internal/migrate"

	"github.com/spf13/cobra"
)

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := e.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			m := migrate.New(database)
			if err := m.EnsureTable(cmd.Context()); err != nil {
				return err
			}
			applied, err := m.Up(cmd.Context())
			for _, v := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("applied ")+v)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("schema is up to date"))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := e.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			m := migrate.New(database)
			if err := m.EnsureTable(cmd.Context()); err != nil {
				return err
			}
			version, err := m.Down(cmd.Context())
			if err != nil {
				return err
			}
			if version == "" {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("no migrations to roll back"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("rolled back ")+version)
			return nil
		},
	})

	return cmd
}
