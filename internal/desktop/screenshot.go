package desktop

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"sigsetup/internal/domain"
)

// Screenshot lets the user select a screen region and writes it to dest.
// A dismissed selector (no file, or an empty file) yields
// domain.ErrScreenshotCancelled.
func (c *Controller) Screenshot(ctx context.Context, dest string) error {
	var candidates [][]string
	if goos == "darwin" {
		candidates = [][]string{{"screencapture", "-i", dest}}
	} else {
		candidates = [][]string{
			{"gnome-screenshot", "-a", "-f", dest},
			{"spectacle", "-r", "-b", "-n", "-o", dest},
		}
	}

	var lastErr error
	for _, argv := range candidates {
		err := execCommand(ctx, argv[0], argv[1:]...).Run()
		if err != nil {
			lastErr = err
			continue
		}
		info, statErr := os.Stat(dest)
		if statErr != nil || info.Size() == 0 {
			return domain.ErrScreenshotCancelled
		}
		c.log.Debug("screenshot captured",
			zap.String("tool", argv[0]),
			zap.String("path", dest),
			zap.Int64("bytes", info.Size()))
		return nil
	}
	return fmt.Errorf("no screenshot tool succeeded: %w", lastErr)
}
