package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"staffing/internal/domain/allocation"
	"staffing/internal/domain/employee"
)

func employeesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "employees",
		Short: "List registered employees with their allocation totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer services.Store.Close()

			employees := services.Employees.List(ctx)
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), employees)
			}
			ledger := allocation.NewLedger(services.Allocations.List(ctx))
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDESIGNATION\tDEPARTMENT\tALLOCATED")
			for _, emp := range employees {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d%%\n", emp.EmployeeID, emp.Name, emp.Designation, emp.Department, ledger.Total(emp.EmployeeID))
			}
			return tw.Flush()
		},
	}
}

func registerCmd() *cobra.Command {
	var (
		reg    employee.Registration
		skills string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer services.Store.Close()

			for _, s := range strings.Split(skills, ",") {
				if s = strings.TrimSpace(s); s != "" {
					reg.Skills = append(reg.Skills, s)
				}
			}
			emp, err := services.Employees.Register(ctx, reg)
			if err != nil {
				return describe(err)
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), emp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", emp.Name, emp.EmployeeID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&reg.EmployeeID, "id", "", "employee ID, e.g. TM123")
	f.StringVar(&reg.Name, "name", "", "full name")
	f.StringVar(&reg.Email, "email", "", "email address")
	f.StringVar(&reg.Phone, "phone", "", "10 digit phone number")
	f.StringVar(&reg.Designation, "designation", "", "designation from the catalog")
	f.StringVar(&reg.Department, "department", "", "department from the catalog")
	f.StringVar(&reg.DateOfJoining, "joined", "", "date of joining (YYYY-MM-DD)")
	f.StringVar(&reg.Location, "location", "", "work location from the catalog")
	f.Float64Var(&reg.ExperienceYears, "experience", 0, "years of experience")
	f.StringVar(&skills, "skills", "", "comma separated skills")
	return cmd
}
