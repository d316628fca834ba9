package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/journalfs/vsfs/vsfs"
)

// NewCreateCmd returns the command that logs a file creation to the
// journal without touching the base image.
func NewCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Log the creation of a file in the root directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openImage(cmd)
			if err != nil {
				return err
			}
			defer d.Close()
			if _, err := vsfs.Create(d, args[0]); err != nil {
				return fmt.Errorf("create: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged creation of '%s' to journal.\n", args[0])
			return nil
		},
	}
}
