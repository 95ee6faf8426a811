package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pocket/internal/export"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

func exportCmd() *cobra.Command {
	var (
		dir   string
		text  bool
		since string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records as a JSON file or a text report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter record.ListFilter

			if since != "" {
				t, err := time.ParseInLocation(time.DateOnly, since, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --since %q: %w", since, err)
				}

				filter.StartDate = &t
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			if text {
				recs, err := a.Records.List(cmd.Context(), filter)
				if err != nil {
					return err
				}

				fmt.Fprint(cmd.OutOrStdout(), export.TextReport(recs, a.Records.Catalog()))

				return nil
			}

			path, err := a.Export.SaveToDir(cmd.Context(), filter, dir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)

			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	cmd.Flags().BoolVar(&text, "text", false, "print a text report instead of writing a file")
	cmd.Flags().StringVar(&since, "since", "", "only records on or after YYYY-MM-DD")

	return cmd
}
