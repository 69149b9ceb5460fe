package workenv

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/storynode/player/pkg/snpk/archive"
)

// Extract replaces the working directory with the contents of the archive
// and returns its path. A failure on any entry aborts the whole extraction.
func (w *Workenv) Extract(data []byte) (string, error) {
	release, err := w.acquire()
	if err != nil {
		return "", err
	}
	defer release()

	codec, err := archive.Detect(data)
	if err != nil {
		return "", err
	}
	w.logger.Debug("📦 Detected archive format", "format", codec.Format(), "size", len(data))

	if err := w.checkDiskSpace(int64(len(data))); err != nil {
		return "", err
	}

	if err := w.replace(); err != nil {
		return "", err
	}

	var files, dirs int
	err = codec.Walk(data, func(entry archive.Entry, r io.Reader) error {
		switch entry.Kind {
		case archive.KindDir:
			dirs++
		case archive.KindFile:
			files++
		}
		if err := w.writeEntry(entry, r); err != nil {
			w.logger.Error("❌ Failed to extract entry", "entry", entry.Name, "error", err)
			return fmt.Errorf("extract %q: %w", entry.Name, err)
		}
		return nil
	})
	if err != nil {
		if rmErr := os.RemoveAll(w.dir); rmErr != nil {
			w.logger.Warn("⚠️ Failed to remove partial extraction", "path", w.dir, "error", rmErr)
		}
		return "", err
	}

	w.logger.Info("📤 Extracted project archive", "path", w.dir, "files", files, "dirs", dirs)
	return w.dir, nil
}

// replace removes the working directory and recreates it empty
func (w *Workenv) replace() error {
	if _, err := os.Lstat(w.dir); err == nil {
		w.logger.Debug("🧹 Removing previous extraction", "path", w.dir)
		if err := os.RemoveAll(w.dir); err != nil {
			return fmt.Errorf("failed to remove working directory: %w", err)
		}
	}

	if err := os.MkdirAll(w.dir, DirPerms); err != nil {
		return fmt.Errorf("failed to create working directory: %w", err)
	}
	return nil
}

func (w *Workenv) writeEntry(entry archive.Entry, r io.Reader) error {
	if entry.Kind == archive.KindOther {
		w.logger.Warn("⚠️ Skipping unsupported archive entry", "entry", entry.Name, "mode", entry.Mode.String())
		return nil
	}

	target, err := archive.SafeJoin(w.dir, entry.Name)
	if err != nil {
		return err
	}

	if entry.Kind == archive.KindDir {
		w.logger.Trace("📁 Creating directory", "path", target)
		return os.MkdirAll(target, DirPerms)
	}

	if err := os.MkdirAll(filepath.Dir(target), DirPerms); err != nil {
		return err
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePerms)
	if err != nil {
		return err
	}

	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	w.logger.Trace("📝 Wrote file", "path", target, "bytes", n)
	return nil
}

// checkDiskSpace verifies there's enough disk space for extraction
func (w *Workenv) checkDiskSpace(archiveSize int64) error {
	needed := archiveSize * w.multiplier

	available, err := getAvailableDiskSpace(filepath.Dir(w.dir))
	if err != nil {
		w.logger.Warn("⚠️ Could not check disk space", "error", err)
		return nil // Don't fail if we can't check
	}

	neededMB := float64(needed) / (1024 * 1024)
	availableMB := float64(available) / (1024 * 1024)
	w.logger.Debug("💾 Disk space check", "needed_mb", fmt.Sprintf("%.2f", neededMB), "available_mb", fmt.Sprintf("%.2f", availableMB))

	if available < needed {
		return fmt.Errorf("insufficient disk space: need %.2f MB, have %.2f MB", neededMB, availableMB)
	}
	return nil
}
