package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/journalfs/vsfs/vsfs"
)

// NewInstallCmd returns the command that replays the journal into the
// base image.
func NewInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Apply all committed journal transactions to the image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openImage(cmd)
			if err != nil {
				return err
			}
			defer d.Close()
			n, err := vsfs.Install(d)
			if err != nil {
				return fmt.Errorf("install: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Installed %d committed transactions from journal.\n", n)
			return nil
		},
	}
}
