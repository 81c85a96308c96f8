package captcha

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"sigsetup/internal/domain"
)

// WaitForFile blocks until path exists and yields a token, watching the
// parent directory for the file to be created or written. It lets the user
// start registration first and solve the captcha afterwards.
func WaitForFile(ctx context.Context, path string) (domain.CaptchaToken, error) {
	// The file may already be there.
	if token, err := FromFile(path); err == nil {
		return token, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return "", fmt.Errorf("watching for captcha file: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return "", fmt.Errorf("watching %q: %w", dir, err)
	}

	// Re-check after the watch is in place to close the race with a writer
	// that finished in between.
	if token, err := FromFile(path); err == nil {
		return token, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, open := <-watcher.Events:
			if !open {
				return "", fmt.Errorf("captcha file watch closed")
			}
			if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
				continue
			}
			evAbs, err := filepath.Abs(ev.Name)
			if err != nil || evAbs != abs {
				continue
			}
			token, err := FromFile(path)
			if err != nil {
				// Partial write; keep waiting for the next event.
				continue
			}
			return token, nil
		case err, open := <-watcher.Errors:
			if !open {
				return "", fmt.Errorf("captcha file watch closed")
			}
			return "", fmt.Errorf("captcha file watch: %w", err)
		}
	}
}
