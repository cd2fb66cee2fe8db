package main

import (
	"fmt"

	"github.com/CryoKynase/wheel-lacing-app/internal/logging"
	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/method/standard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	verbose    bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "wheelweaver",
		Short: "Spoke lacing pattern generator",
		Long: `wheelweaver computes step-by-step spoke lacing patterns for bicycle wheels.

It renders the pattern as a table, CSV, JSON or an SVG diagram, and can run
an HTTP server with a live-compute websocket and a preset store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := opts.logLevel
			if opts.verbose {
				level = "debug"
			}
			logger, err := logging.New(level, opts.verbose)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "wheelweaver.yaml", "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose development logging")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newComputeCmd(opts))
	cmd.AddCommand(newLayoutCmd(opts))
	cmd.AddCommand(newMethodsCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// newRegistry lists every lacing method the binary ships with.
func newRegistry() *method.Registry {
	return method.MustRegistry(standard.New())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wheelweaver %s (built %s)\n", Version, BuildTime)
		},
	}
}
