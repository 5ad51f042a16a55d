package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sanartes/internal/core"
)

func statsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats PROJECT",
		Short: "Print the specialized report of one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, ok := appCtx.registry.ProjectReport(args[0])
			if !ok {
				return fmt.Errorf("project %q not found (available: %v)", args[0], appCtx.registry.Registry().Names())
			}
			out := cmd.OutOrStdout()
			if asJSON {
				b, err := core.EncodeReport(report)
				if err != nil {
					return err
				}
				_, err = out.Write(b)
				return err
			}
			fmt.Fprintf(out, "%s (%s)\n", report.Name, report.Type)
			fmt.Fprintf(out, "Instituciones: %d\n", report.Institutions)
			fmt.Fprintf(out, "Beneficiarios: %d\n", report.Beneficiaries)
			for _, ns := range report.ByInstitution {
				fmt.Fprintf(out, "  %s: %d (edad promedio %.1f)\n", ns.Name, ns.Stats.Total, ns.Stats.AverageAge)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
