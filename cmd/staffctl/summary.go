package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	var pdf bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print staffing totals, optionally writing the allocations PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer services.Store.Close()

			if pdf {
				path, err := services.Reports.AllocationsPDF(ctx)
				if err != nil {
					return fmt.Errorf("render pdf: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "wrote", path)
			}

			summary := services.Reports.Summary(ctx)
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Employees:        %d\n", summary.TotalEmployees)
			fmt.Fprintf(w, "Allocations:      %d\n", summary.Allocations)
			fmt.Fprintf(w, "Fully allocated:  %d\n", summary.FullyAllocated)
			fmt.Fprintf(w, "Unallocated:      %d\n", summary.Unallocated)
			for _, p := range summary.ProjectTotals {
				fmt.Fprintf(w, "  %s: %d member(s), %d%% total\n", p.Project, p.Members, p.TotalAllocation)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pdf, "pdf", false, "also write the allocations PDF to REPORTS_DIR")
	return cmd
}
