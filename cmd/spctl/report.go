package main

import (
	"fmt"
	"strings"

	"spareparts-be/internal/report"

	"github.com/spf13/cobra"
)

func newReportCmd(e *env) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:       "report <sales|inventory|delivery>",
		Short:     "Print a store report",
		Long:      "Generate one of the store reports:\n\n" + reportHelp(),
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"sales", "inventory", "delivery"},
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := e.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			ctx := cmd.Context()
			r, err := report.NewFactory(report.NewRepository(database)).Create(ctx, args[0])
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(report.Available(), ", "))
			}

			if plain {
				text, err := r.Export(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}

			rows, err := report.Rows(ctx, r)
			if err != nil {
				return err
			}
			subtitle := "Generated " + r.GeneratedAt().Format("2006-01-02 15:04:05")
			fmt.Fprintln(cmd.OutOrStdout(), renderPairs(r.Title(), subtitle, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the plain-text export instead of the styled view")
	return cmd
}

func reportHelp() string {
	var b strings.Builder
	for _, kind := range report.Available() {
		fmt.Fprintf(&b, "  %-10s %s\n", strings.ToLower(kind), report.Describe(kind))
	}
	return b.String()
}
