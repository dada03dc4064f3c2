package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darkclainer/vocadrill/pkg/drill"
)

func newMaskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mask SENTENCE WORD",
		Short: "Print a sentence with the word blanked out",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), drill.Mask(args[0], args[1]))
			return err
		},
	}
}
