package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-erofs/pkg/erofs"
)

var (
	extractSrc       string
	extractOut       string
	extractRecursive bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [image-path]",
	Short: "Extract files or subtrees to a local directory",
	Long: `Extract content from an EROFS image into the local filesystem.

Examples:
  # Extract one file
  go-erofs extract rootfs.erofs --src /etc/hostname --out ./out

  # Extract a whole subtree
  go-erofs extract rootfs.erofs --src /etc --out ./out --recursive`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractSrc, "src", "/", "path inside the image to extract")
	extractCmd.Flags().StringVar(&extractOut, "out", ".", "output directory")
	extractCmd.Flags().BoolVarP(&extractRecursive, "recursive", "r", false, "extract directories recursively")
}

func runExtract(imagePath string) error {
	fs, err := erofs.OpenPath(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image %s: %w", imagePath, err)
	}
	defer fs.Close()

	info, err := fs.Stat(extractSrc)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return extractOne(fs, extractSrc, filepath.Join(extractOut, info.Name), info.Type)
	}

	if !extractRecursive {
		return fmt.Errorf("%s is a directory; use --recursive to extract it", extractSrc)
	}
	return extractTree(fs)
}

func extractTree(fs *erofs.Filesystem) error {
	if err := os.MkdirAll(extractOut, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	walker, err := fs.WalkDir(extractSrc)
	if err != nil {
		return err
	}

	extracted := 0
	for {
		we, err := walker.Next()
		if errors.Is(err, io.EOF) {
			logrus.Infof("extracted %d entries to %s", extracted, extractOut)
			return nil
		}
		if err != nil {
			return err
		}

		rel, err := filepath.Rel("/"+extractSrc, "/"+we.Path)
		if err != nil {
			rel = we.Entry.Name
		}
		dest := filepath.Join(extractOut, rel)

		switch we.Entry.Type {
		case erofs.TypeDir:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dest, err)
			}
		case erofs.TypeRegular:
			if err := extractOne(fs, we.Path, dest, we.Entry.Type); err != nil {
				return err
			}
		case erofs.TypeSymlink:
			if err := extractOne(fs, we.Path, dest, we.Entry.Type); err != nil {
				return err
			}
		default:
			logrus.Debugf("skipping special file %s (%s)", we.Path, we.Entry.Type)
			continue
		}
		extracted++
	}
}

func extractOne(fs *erofs.Filesystem, src, dest string, typ erofs.EntryType) error {
	if typ == erofs.TypeSymlink {
		target, err := fs.ReadLink(src)
		if err != nil {
			return err
		}
		if err := os.Symlink(target, dest); err != nil {
			return fmt.Errorf("failed to create symlink %s: %w", dest, err)
		}
		logrus.Debugf("symlink %s -> %s", dest, target)
		return nil
	}

	file, err := fs.OpenFile(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	n, err := io.Copy(out, file)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	logrus.Debugf("wrote %s (%d bytes)", dest, n)
	return nil
}
