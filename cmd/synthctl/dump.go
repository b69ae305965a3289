package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vlsicore/subnet/internal/diag"
)

func newDumpCmd(logger *diag.Logger) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "print a JSON-encoded Subnet's entry listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Begin("dump")
			defer logger.End()

			s, err := loadSubnet(path)
			if err != nil {
				return fmt.Errorf("synthctl dump: %w", err)
			}
			logger.Note(fmt.Sprintf("loaded %q: %d inputs, %d outputs, %d entries", path, s.NumInputs(), s.NumOutputs(), s.Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "%d inputs, %d outputs, %d entries\n", s.NumInputs(), s.NumOutputs(), s.Len())
			fmt.Fprint(cmd.OutOrStdout(), s.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "in", "", "path to a JSON-encoded Subnet")
	cmd.MarkFlagRequired("in")
	return cmd
}
