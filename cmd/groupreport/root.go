package main

import (
	"github.com/spf13/cobra"

	"github.com/oscar-hpc/groupreport/pkg/logger"
	"github.com/oscar-hpc/groupreport/version"
)

func newRootCmd() *cobra.Command {
	opts := logger.Config{}

	cmd := &cobra.Command{
		Use:     "groupreport",
		Short:   "generate an Oscar resource usage report for a group",
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindEnv("GROUPREPORT_", cmd); err != nil {
				return err
			}
			if opts.Level == "" {
				opts.Level = "info"
			}
			logger.SetLogrus(opts)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Level, "level", "",
		"set the logging level (can be one of: debug, info, warn, error, or fatal)")
	cmd.PersistentFlags().BoolVar(&opts.Color, "color", true, "enable colored output")
	cmd.PersistentFlags().BoolVar(&opts.Structured, "structured", false,
		"enable structured logging")

	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newRunCmd())

	return cmd
}
