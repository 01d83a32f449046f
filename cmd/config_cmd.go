package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if usedFile != "" {
			fmt.Fprintf(w, "# %s\n", usedFile) //nolint:errcheck
		}
		_, err = w.Write(out)
		return err
	},
}
