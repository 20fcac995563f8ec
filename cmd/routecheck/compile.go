package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	router "github.com/goliatone/go-navrouter"
)

func compileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <pattern> [path]",
		Short: "Check a pattern and optionally match a path against it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := router.Compile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pattern %s ok, params %v\n", m.Pattern(), m.Names())
			if len(args) == 1 {
				return nil
			}

			res, ok := m.Match(args[1])
			if !ok {
				fmt.Fprintf(out, "%s does not match\n", args[1])
				return nil
			}

			fmt.Fprintf(out, "%s matches\n", args[1])
			keys := make([]string, 0, len(res.Params))
			for k := range res.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "param %s=%q\n", k, res.Params[k])
			}
			return nil
		},
	}
}
