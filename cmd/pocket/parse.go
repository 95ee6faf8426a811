package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pocket/internal/encoding"
	"github.com/MrJamesThe3rd/pocket/internal/record"
)

const maxTextBytes = 64 << 10

func parseCmd() *cobra.Command {
	var (
		save    bool
		charset string
	)

	cmd := &cobra.Command{
		Use:   "parse [text]",
		Short: "Classify a payment notification",
		Long: `Classify a payment notification and print the resulting draft.

The text is taken from the arguments, or from stdin when none are given.
Stdin may be in any common Chinese encoding; pass --charset to skip detection.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd.InOrStdin(), args, charset)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			draft, err := a.Capture.Draft(text)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Draft"))
			fmt.Fprintf(out, "  type:     %s\n", kindLabel(draft.Kind))
			fmt.Fprintf(out, "  amount:   %s\n", draft.Amount.Decimal.StringFixed(2))
			fmt.Fprintf(out, "  category: %s %s\n", a.Records.Catalog().Emoji(draft.Kind, draft.Category), draft.Category)
			fmt.Fprintf(out, "  note:     %s\n", draft.Note)

			if !save {
				return nil
			}

			rec, err := a.Capture.Capture(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("saving record: %w", err)
			}

			fmt.Fprintf(out, "saved record %d\n", rec.ID)

			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store the draft as a record")
	cmd.Flags().StringVar(&charset, "charset", "", "charset of stdin (detected when empty)")

	return cmd
}

func inputText(stdin io.Reader, args []string, charset string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	text, err := encoding.ReadString(stdin, charset, maxTextBytes)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	return strings.TrimSpace(text), nil
}

func kindLabel(k record.Kind) string {
	if k == record.KindIncome {
		return incomeStyle.Render(string(k))
	}

	return expenseStyle.Render(string(k))
}
