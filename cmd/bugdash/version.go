package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "bugdash %s\n", Version)
			_, _ = fmt.Fprintf(w, "  commit: %s\n", GitCommit)
			_, _ = fmt.Fprintf(w, "  built:  %s\n", BuildDate)
			return nil
		},
	}
}
