package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/journalfs/vsfs/common"
	"github.com/journalfs/vsfs/disk"
	"github.com/journalfs/vsfs/vsfs"
)

// NewMkfsCmd returns the command that formats a fresh image.
func NewMkfsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkfs",
		Short: "Format the image as an empty filesystem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := cmd.Flags().GetString("image")
			if err != nil {
				return err
			}
			d, err := disk.NewFileDisk(img, common.TotalBlocks)
			if err != nil {
				return err
			}
			defer d.Close()
			sb, err := vsfs.Mkfs(d)
			if err != nil {
				return fmt.Errorf("mkfs: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Formatted %s: %d blocks, %d inodes, volume %s\n",
				img, sb.TotalBlocks, sb.InodeCount, sb.VolumeID)
			return nil
		},
	}
}
