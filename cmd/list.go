package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-erofs/pkg/erofs"
)

var (
	// Path options (list-specific)
	listPath      string
	listRecursive bool
	listLong      bool
)

var listCmd = &cobra.Command{
	Use:   "list [image-path]",
	Short: "List a directory or a whole subtree",
	Long: `List directory contents of an EROFS image.

Examples:
  # List the root directory
  go-erofs list rootfs.erofs

  # List a specific directory with metadata
  go-erofs list rootfs.erofs --path /etc -l

  # List a whole subtree
  go-erofs list rootfs.erofs --path /usr -r`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(args[0])
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listPath, "path", "p", "/", "path to list")
	listCmd.Flags().BoolVarP(&listRecursive, "recursive", "r", false, "recursive listing")
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "show size, mode, and link metadata")
}

func runList(imagePath string) error {
	fs, err := erofs.OpenPath(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image %s: %w", imagePath, err)
	}
	defer fs.Close()

	if listRecursive {
		return listTree(fs)
	}
	return listLevel(fs)
}

func listLevel(fs *erofs.Filesystem) error {
	dir, err := fs.ReadDir(listPath)
	if err != nil {
		return err
	}

	for {
		entry, err := dir.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		printEntry(fs, listPath+"/"+entry.Name, entry)
	}
}

func listTree(fs *erofs.Filesystem) error {
	walker, err := fs.WalkDir(listPath)
	if err != nil {
		return err
	}

	for {
		we, err := walker.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		printEntry(fs, we.Path, we.Entry)
	}
}

func printEntry(fs *erofs.Filesystem, path string, entry erofs.DirEntry) {
	if !listLong {
		fmt.Printf("%-8s %s\n", entry.Type, path)
		return
	}

	info, err := fs.Stat(path)
	if err != nil {
		fmt.Printf("%-8s %s (stat failed: %v)\n", entry.Type, path, err)
		return
	}

	fmt.Printf("%-8s %06o %4d %8d %s\n", entry.Type, info.Mode&^0xF000, info.Links, info.Size, path)
}
