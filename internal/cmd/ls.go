package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/journalfs/vsfs/vsfs"
)

// NewLsCmd returns the command that lists the root directory, including
// entries logged to the journal but not yet installed.
func NewLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List the root directory (journal included)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openImage(cmd)
			if err != nil {
				return err
			}
			defer d.Close()
			entries, err := vsfs.ReadDir(d)
			if err != nil {
				return fmt.Errorf("ls: %w", err)
			}
			for _, e := range entries {
				kind := "file"
				if e.Type == vsfs.TypeDir {
					kind = "dir"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %6d %4d %s\n", kind, e.Size, e.Inum, e.Name)
			}
			return nil
		},
	}
}
