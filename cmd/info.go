package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-erofs/pkg/erofs"
)

var infoCmd = &cobra.Command{
	Use:   "info [image-path]",
	Short: "Show superblock and volume details",
	Long: `Show the superblock summary of an EROFS image.

Examples:
  # Summarize an image
  go-erofs info rootfs.erofs

  # Machine-readable output
  go-erofs info rootfs.erofs -o json`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(args[0])
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(imagePath string) error {
	fs, err := erofs.OpenPath(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image %s: %w", imagePath, err)
	}
	defer fs.Close()

	info := fs.Info()
	logrus.Debugf("opened image %s", imagePath)

	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("Image:            %s\n", imagePath)
	fmt.Printf("Block size:       %d\n", info.BlockSize)
	fmt.Printf("Root nid:         %d\n", info.RootNid)
	fmt.Printf("Inode count:      %d\n", info.InodeCount)
	fmt.Printf("Build time:       %s\n", info.BuildTime.UTC().Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("UUID:             %s\n", info.UUID)
	if info.VolumeName != "" {
		fmt.Printf("Volume name:      %s\n", info.VolumeName)
	}
	fmt.Printf("Compat features:  0x%08X\n", info.FeatureCompat)
	fmt.Printf("Incompat features: 0x%08X\n", info.FeatureIncompat)

	return nil
}
