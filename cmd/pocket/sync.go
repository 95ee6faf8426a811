package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/pocket/internal/cloudsync"
)

func syncCmd() *cobra.Command {
	var push, pull bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile local records with the remote backup",
		Long: `Merge the remote snapshot into the local records and upload the result.

Local records win when both sides hold the same id. --push only uploads,
--pull only merges the remote into the local records.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if push && pull {
				return errors.New("--push and --pull are mutually exclusive")
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			var op func(context.Context) (*cloudsync.Result, error)

			switch {
			case push:
				op = a.Sync.Push
			case pull:
				op = a.Sync.Pull
			default:
				op = a.Sync.Sync
			}

			res, err := op(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if warning := res.Warning(); warning != "" {
				fmt.Fprintln(out, warnStyle.Render(warning))
			}

			fmt.Fprintf(out, "%s local=%d remote=%d merged=%d at %s\n",
				titleStyle.Render("synced"), res.Local, res.Remote, res.Merged, res.SyncedAt.Format("2006-01-02 15:04:05"))

			return nil
		},
	}

	cmd.Flags().BoolVar(&push, "push", false, "upload local records without merging")
	cmd.Flags().BoolVar(&pull, "pull", false, "merge the remote without uploading")

	return cmd
}
