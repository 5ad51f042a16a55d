package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sanartes/internal/cli"
)

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [EXPORT_ID]",
		Short: "List exports archived by the sqlite sink, or print one archived report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := cli.InitSQLite(appCtx.logger, appCtx.cfg.SQLiteDBPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				rec, err := repo.GetExport(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("export %s: %w", args[0], err)
				}
				_, err = out.Write(rec.Payload)
				return err
			}

			records, err := repo.ListExports(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "no archived exports in %s\n", appCtx.cfg.SQLiteDBPath)
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tGENERATED\tPROJECTS\tBENEFICIARIES")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", r.ID, r.GeneratedAt.Format(time.RFC3339), r.TotalProjects, r.TotalBeneficiaries)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of exports to list")
	return cmd
}
