package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the consolidated report and publish it to the configured sinks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = appCtx.cfg.ExportPath
			}
			exp, err := appCtx.exporter(cmd.Context())
			if err != nil {
				return err
			}
			result := exp.Export(cmd.Context(), path)
			if !result.OK {
				return fmt.Errorf("export %s: %w", result.Path, result.Err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %s (id %s)\n", result.Path, result.ExportID)
			for _, r := range result.Sinks {
				status := "ok"
				if !r.OK() {
					status = "failed: " + r.Err.Error()
				}
				fmt.Fprintf(out, "  %-7s %s\n", r.Sink, status)
			}
			if failed := result.FailedSinks(); len(failed) > 0 {
				return errors.New("sinks failed: " + strings.Join(failed, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "output file (default EXPORT_PATH)")
	return cmd
}
