package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

func addCmd() *cobra.Command {
	var (
		kind     string
		category string
		note     string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Add a record by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			k, ok := record.ParseKind(kind)
			if !ok {
				return fmt.Errorf("%w: %q", record.ErrInvalidKind, kind)
			}

			var occurred time.Time
			if date != "" {
				occurred, err = time.ParseInLocation(time.DateOnly, date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			if category == "" {
				category = a.Records.Catalog().First(k)
			}

			rec, err := a.Records.Create(cmd.Context(), record.CreateParams{
				Kind:       k,
				Category:   category,
				Amount:     amount,
				Note:       note,
				OccurredAt: occurred,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved record %d\n", rec.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", string(record.KindExpense), "expense or income")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category (first of the kind when empty)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "free-text note")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (today when empty)")

	return cmd
}
