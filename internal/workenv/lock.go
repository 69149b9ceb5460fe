package workenv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var ErrLockTimeout = errors.New("❌ timed out waiting for extraction lock")

const lockRetryDelay = 100 * time.Millisecond

// acquire serialises extractions: the mutex covers goroutines sharing this
// Workenv, the lock file covers other Workenvs and other processes.
func (w *Workenv) acquire() (func(), error) {
	w.mu.Lock()

	if err := os.MkdirAll(filepath.Dir(w.dir), DirPerms); err != nil {
		w.mu.Unlock()
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.lockTimeout)
	defer cancel()

	ok, err := w.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !ok {
		w.mu.Unlock()
		if err == nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", ErrLockTimeout, w.LockPath(), w.lockTimeout)
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	w.logger.Debug("🔒 Acquired extraction lock", "path", w.LockPath())

	return func() {
		if err := w.lock.Unlock(); err != nil {
			w.logger.Debug("⚠️ Failed to release extraction lock", "error", err)
		} else {
			w.logger.Debug("🔓 Released extraction lock")
		}
		w.mu.Unlock()
	}, nil
}
