package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func askCmd() *cobra.Command {
	var allocateOnly bool
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the assistant about employees, candidates or allocations",
		Long: `Ask the assistant a free-text question.

Examples:
  staffctl ask "what projects is Priya working on?"
  staffctl ask "find me a backend developer with Go for 50%"
  staffctl ask --allocate "allocate Priya to Apollo from 2025-01-01 to 2025-06-30 at 40%"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			services, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer services.Store.Close()

			query := strings.Join(args, " ")
			handle := services.Assistant.Handle
			if allocateOnly {
				handle = services.Assistant.HandleAllocation
			}
			out, err := handle(ctx, query)
			if err != nil {
				return describe(err)
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, out.Message)
			for _, c := range out.Candidates {
				fmt.Fprintf(w, "  %s (%s) skills %s, %d%% available\n", c.Name, c.EmployeeID, c.SkillMatch, c.Available)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&allocateOnly, "allocate", false, "only accept allocation commands")
	return cmd
}
