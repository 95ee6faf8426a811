package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pocket/internal/record"
)

func summaryCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the totals of a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := time.Now()
			if month != "" {
				var err error

				t, err = time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid month %q, want YYYY-MM: %w", month, err)
				}
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			sum, err := a.Records.MonthlySummary(cmd.Context(), t.Year(), t.Month())
			if err != nil {
				return err
			}

			printSummary(cmd, t.Format("2006-01"), sum)

			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (current month when empty)")

	return cmd
}

func printSummary(cmd *cobra.Command, title string, sum record.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render(title))
	fmt.Fprintf(out, "  expense: %s\n", expenseStyle.Render(sum.Expense.StringFixed(2)))
	fmt.Fprintf(out, "  income:  %s\n", incomeStyle.Render(sum.Income.StringFixed(2)))
	fmt.Fprintf(out, "  balance: %s\n", sum.Balance().StringFixed(2))
	fmt.Fprintf(out, "  records: %d\n", sum.Count)
}
