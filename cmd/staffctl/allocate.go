package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"staffing/internal/domain/allocation"
	"staffing/internal/validation"
)

func allocateCmd() *cobra.Command {
	var (
		req        allocation.Request
		percentage float64
	)
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Allocate an employee to a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer services.Store.Close()

			if cmd.Flags().Changed("percent") {
				req.Allocation = &percentage
			}
			rec, err := services.Allocations.Allocate(ctx, req)
			if err != nil {
				return describe(err)
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Allocated %s to %s at %d%% (%s to %s)\n", rec.Name, rec.ProjectName, rec.Allocation, rec.StartDate, rec.EndDate)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.EmployeeID, "employee", "", "employee ID")
	f.StringVar(&req.ProjectName, "project", "", "project name")
	f.StringVar(&req.StartDate, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&req.EndDate, "end", "", "end date (YYYY-MM-DD)")
	f.Float64Var(&percentage, "percent", 0, "allocation percentage (1-100)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Bulk import allocations from a CSV file",
		Long: `Bulk import allocations. The header must name project_name, start_date,
end_date, allocation and employee_id. Bad rows are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer services.Store.Close()

			result, err := services.Allocations.ImportCSV(ctx, f)
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d of %d rows\n", result.Imported, result.Rows)
			for _, rowErr := range result.Errors {
				fmt.Fprintf(out, "  row %d: %s\n", rowErr.Row, strings.Join(rowErr.Messages, " "))
			}
			return nil
		},
	}
}

// describe flattens validation issues into one readable error.
func describe(err error) error {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return errors.New(strings.Join(vErr.Messages(), " "))
	}
	return err
}
