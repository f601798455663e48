// Package safe provides validated file system operations.
package safe

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileOptions configures the behavior of WriteFile.
type WriteFileOptions struct {
	// Perm is the permission mode for the destination file. Zero means 0644.
	Perm os.FileMode
	// MkdirParents creates missing parent directories before writing.
	MkdirParents bool
}

// WriteFile writes data to path atomically: the content goes to a temporary
// file in the destination directory first and is renamed into place, so
// readers never observe a partially written report.
func WriteFile(path string, data []byte, opts *WriteFileOptions) error {
	if opts == nil {
		opts = &WriteFileOptions{}
	}
	perm := opts.Perm
	if perm == 0 {
		perm = 0o644
	}

	cleanPath := filepath.Clean(path)
	dir := filepath.Dir(cleanPath)

	if opts.MkdirParents {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(cleanPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmpName)
		if werr != nil {
			return fmt.Errorf("write %s: %w", tmpName, werr)
		}
		return fmt.Errorf("close %s: %w", tmpName, cerr)
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, cleanPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s to %s: %w", tmpName, cleanPath, err)
	}
	return nil
}
