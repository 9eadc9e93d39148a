// Package archive packs a directory into a tar.gz stream so that seal
// can protect whole directories, and unpacks it again on open.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// maxFileSize bounds a single extracted file; anything larger is
	// refused rather than risk filling the disk from a hostile archive.
	maxFileSize = 256 << 20

	// maxTotalSize bounds the whole extraction.
	maxTotalSize = 1 << 30
)

// Result contains warnings about files skipped during an archive or
// extract pass (symlinks, devices, sockets).
type Result struct {
	Path     string
	Warnings []string
}

// Pack creates a tar.gz archive of the given directory, preserving the
// structure relative to the source's parent. Symlinks and special
// files are skipped with a warning rather than silently embedded.
func Pack(w io.Writer, sourceDir string) (*Result, error) {
	result := &Result{}

	sourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("accessing directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", sourceDir)
	}

	gzw := gzip.NewWriter(w)
	defer gzw.Close()

	tw := tar.NewWriter(gzw)
	defer tw.Close()

	err = filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(filepath.Dir(sourceDir), path)
		if err != nil {
			return fmt.Errorf("computing relative path: %w", err)
		}

		mode := info.Mode()
		if mode&os.ModeSymlink != 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping symlink: %s (symlinks are not preserved)", relPath))
			return nil
		}
		if !mode.IsRegular() && !mode.IsDir() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping special file: %s (only regular files and directories are archived)", relPath))
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("creating header for %s: %w", path, err)
		}
		header.Name = relPath
		if info.IsDir() {
			header.Name += "/"
		}

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("writing header for %s: %w", path, err)
		}
		if !mode.IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()

		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("copying %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return result, nil
}

// Unpack extracts a tar.gz archive to destDir and returns the path of
// the extracted root directory.
func Unpack(r io.Reader, destDir string) (*Result, error) {
	result := &Result{}

	destDir, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("creating destination: %w", err)
	}

	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	var rootDir string
	var totalSize int64

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar: %w", err)
		}

		if rootDir == "" {
			rootDir = strings.Split(header.Name, "/")[0]
		}

		target := filepath.Join(destDir, header.Name)

		// Path traversal guard.
		if !strings.HasPrefix(filepath.Clean(target)+string(filepath.Separator), filepath.Clean(destDir)+string(filepath.Separator)) {
			return nil, fmt.Errorf("invalid path in archive: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)&0777); err != nil {
				return nil, fmt.Errorf("creating directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if header.Size > maxFileSize {
				return nil, fmt.Errorf("file exceeds maximum size of %d bytes", int64(maxFileSize))
			}
			totalSize += header.Size
			if totalSize > maxTotalSize {
				return nil, fmt.Errorf("archive exceeds maximum total size of %d bytes", int64(maxTotalSize))
			}

			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return nil, fmt.Errorf("creating parent directory: %w", err)
			}

			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode)&0666)
			if err != nil {
				return nil, fmt.Errorf("creating file %s: %w", target, err)
			}

			written, err := io.Copy(f, io.LimitReader(tr, maxFileSize+1))
			closeErr := f.Close()
			if err != nil {
				return nil, fmt.Errorf("writing file %s: %w", target, err)
			}
			if closeErr != nil {
				return nil, fmt.Errorf("closing file %s: %w", target, closeErr)
			}
			if written > maxFileSize {
				return nil, fmt.Errorf("file exceeds maximum size during extraction")
			}

		case tar.TypeSymlink, tar.TypeLink:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping link in archive: %s (links are not extracted)", header.Name))

		default:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping special entry in archive: %s", header.Name))
		}
	}

	if rootDir == "" {
		return nil, fmt.Errorf("empty archive")
	}

	result.Path = filepath.Join(destDir, rootDir)
	return result, nil
}

// CountFiles counts the regular files under dir.
func CountFiles(dir string) (int, error) {
	count := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			count++
		}
		return nil
	})
	return count, err
}

// DirSize sums the sizes of all regular files under dir.
func DirSize(dir string) (int64, error) {
	var size int64
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
