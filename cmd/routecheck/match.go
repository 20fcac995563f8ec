package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	router "github.com/goliatone/go-navrouter"
)

func matchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "match <file> <url>",
		Short: "Resolve a URL against a route table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRouter(args[0], opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			res, ok := r.Resolve(args[1])
			for depth, level := range res.Chain {
				indent := strings.Repeat("  ", depth)
				kind := "path"
				if level.Default {
					kind = "default"
				}
				fmt.Fprintf(out, "%s%s %s (base %q, path %q)\n", indent, kind, describe(level.Route), level.Base, level.Path)
			}

			if !ok {
				fmt.Fprintf(out, "no match for %s\n", args[1])
				return nil
			}

			params := res.Params()
			keys := make([]string, 0, len(params))
			for k := range params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "param %s=%q\n", k, params[k])
			}
			return nil
		},
	}
}

func describe(route router.RouteDefinition) string {
	switch {
	case route.Router != nil && route.Path != "":
		return route.Path + " -> router"
	case route.Router != nil:
		return "router " + route.Router.Base()
	case route.Name != "":
		return route.Name
	default:
		return route.Path
	}
}
