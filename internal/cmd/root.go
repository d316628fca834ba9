// Package cmd builds the vsfs command tree.
package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/journalfs/vsfs/disk"
)

// DefaultImage is the image path used when --image is not given.
const DefaultImage = "vsfs.img"

// NewRootCmd creates and returns the root cobra command for the vsfs
// CLI with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vsfs",
		Short: "vsfs - a minimal filesystem image with a write-ahead journal",
		Long: `vsfs manages a minimal on-disk filesystem image whose metadata updates
are made crash-consistent by a write-ahead journal.

File creations are first logged to the journal as atomic transactions
(create) and later replayed into the base image (install). Use mkfs to
format a fresh image, and ls/info to inspect one.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New("a command is required")
		},
	}

	rootCmd.PersistentFlags().StringP("image", "i", DefaultImage, "path to the filesystem image")

	rootCmd.AddCommand(NewMkfsCmd())
	rootCmd.AddCommand(NewCreateCmd())
	rootCmd.AddCommand(NewInstallCmd())
	rootCmd.AddCommand(NewLsCmd())
	rootCmd.AddCommand(NewInfoCmd())

	return rootCmd
}

// openImage opens the image named by the --image flag.
func openImage(cmd *cobra.Command) (*disk.FileDisk, error) {
	img, err := cmd.Flags().GetString("image")
	if err != nil {
		return nil, err
	}
	return disk.OpenFileDisk(img)
}
