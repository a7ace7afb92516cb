package main

import (
	"fmt"
	"strconv"

	"spareparts-be/internal/db"
	"spareparts-be/internal/notification"
	"spareparts-be/internal/sparepart"
	"spareparts-be/internal/warranty"

	"github.com/spf13/cobra"
)

func newWarrantyCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warranty",
		Short: "Inspect warranties",
	}
	cmd.AddCommand(newExpiringCmd(e))
	return cmd
}

func newExpiringCmd(e *env) *cobra.Command {
	var (
		days   int
		notify bool
	)

	cmd := &cobra.Command{
		Use:   "expiring",
		Short: "List active warranties that expire soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("--days must not be negative")
			}

			database, err := e.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			dispatcher := notification.NewWarrantyDispatcher(notification.DefaultTemplates(), notification.LogSender{})
			svc := warranty.NewService(
				warranty.NewRepository(database),
				sparepart.NewRepository(database),
				dispatcher,
				db.NewTransactor(database),
			)

			ctx := cmd.Context()
			if notify {
				n, err := svc.NotifyExpiring(ctx, days)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("sent %d expiry reminders", n)))
				return nil
			}

			ws, err := svc.ListExpiring(ctx, days)
			if err != nil {
				return err
			}
			if len(ws) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render(fmt.Sprintf("no warranties expire within %d days", days)))
				return nil
			}

			rows := make([][]string, 0, len(ws))
			for _, w := range ws {
				rows = append(rows, []string{
					w.WarrantyNumber,
					w.CustomerName,
					w.PartNumber,
					w.ExpiryDate.Format("2006-01-02"),
					strconv.Itoa(w.DaysRemaining),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"WARRANTY", "CUSTOMER", "PART", "EXPIRES", "DAYS LEFT"}, rows))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", warranty.DefaultExpiringDays, "look-ahead window in days")
	cmd.Flags().BoolVar(&notify, "notify", false, "send reminders instead of listing")
	return cmd
}
