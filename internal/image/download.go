package imagepkg

import (
	"context"
	"fmt"
	"time"

	"github.com/youruser/newscard/internal/util"
)

// Fetcher downloads remote image bytes for the card shell.
type Fetcher struct {
	Timeout  time.Duration
	MaxBytes int64
}

// DownloadImage returns the raw bytes at url. Decoding is left to the renderer
// so that a bad image is reported as a decode failure.
func (f Fetcher) DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	b, err := util.GetBytes(ctx, url, f.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	return b, nil
}
