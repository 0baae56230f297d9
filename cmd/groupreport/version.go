package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oscar-hpc/groupreport/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("groupreport %s (built with %s)\n", version.Version, runtime.Version())
		},
	}
}
