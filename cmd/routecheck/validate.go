package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func validateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Report unreachable, duplicate and ambiguous routes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRouter(args[0], opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			errs := r.Validate()
			if len(errs) == 0 {
				fmt.Fprintf(out, "%s: %d routes, no conflicts\n", args[0], len(r.Routes()))
				return nil
			}

			for _, err := range errs {
				fmt.Fprintf(out, "  %s\n", err)
			}
			return fmt.Errorf("%s: %d problems found", args[0], len(errs))
		},
	}
}
