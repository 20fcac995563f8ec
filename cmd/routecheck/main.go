package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	router "github.com/goliatone/go-navrouter"
)

// Version information set at build time.
var version = "dev"

type options struct {
	verbose bool
	logger  *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "routecheck",
		Short: "Inspect client side route tables",
		Long: `routecheck loads route tables from YAML or TOML files and reports
conflicts, resolves URLs against them and tests single patterns.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.verbose {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log router decisions")

	rootCmd.AddCommand(
		validateCmd(opts),
		matchCmd(opts),
		compileCmd(),
	)

	return rootCmd
}

// placeholder stands in for the components named by a route table.
type placeholder struct {
	name string
}

var anyComponent = router.RegistryFunc(func(name string) (router.ComponentFunc, bool) {
	return func() router.Component {
		return &placeholder{name: name}
	}, true
})

func loadRouter(path string, opts *options) (*router.Router, error) {
	cfg, err := router.LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return cfg.Build(anyComponent, router.WithLogger(router.NewZapLogger(opts.logger)))
}
