package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/journalfs/vsfs/vsfs"
)

// NewInfoCmd returns the command that prints the superblock.
func NewInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the image's superblock geometry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openImage(cmd)
			if err != nil {
				return err
			}
			defer d.Close()
			sb, err := vsfs.ReadSuperblock(d)
			if err != nil {
				return fmt.Errorf("info: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "volume:       %s\n", sb.VolumeID)
			fmt.Fprintf(out, "block size:   %d\n", sb.BlockSize)
			fmt.Fprintf(out, "total blocks: %d\n", sb.TotalBlocks)
			fmt.Fprintf(out, "inodes:       %d\n", sb.InodeCount)
			fmt.Fprintf(out, "journal:      block %d\n", sb.JournalBlk)
			fmt.Fprintf(out, "inode bitmap: block %d\n", sb.InodeBitmap)
			fmt.Fprintf(out, "data bitmap:  block %d\n", sb.DataBitmap)
			fmt.Fprintf(out, "inode table:  block %d\n", sb.InodeStart)
			fmt.Fprintf(out, "data area:    block %d\n", sb.DataStart)
			return nil
		},
	}
}
