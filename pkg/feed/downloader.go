package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
)

// Downloader saves episode media to local files
type Downloader struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	attempts  int
	delay     time.Duration
}

// DownloaderParams configures Downloader
type DownloaderParams struct {
	Timeout    time.Duration // per attempt, 0 means no timeout
	Attempts   int           // total attempts, 1 means no retry
	RetryDelay time.Duration
	UserAgent  string
}

// NewDownloader makes a downloader
func NewDownloader(params DownloaderParams) *Downloader {
	if params.Attempts < 1 {
		params.Attempts = 1
	}
	return &Downloader{
		client:    &http.Client{},
		userAgent: params.UserAgent,
		timeout:   params.Timeout,
		attempts:  params.Attempts,
		delay:     params.RetryDelay,
	}
}

// Download writes the resource at url to dst, overwriting it. On failure dst is removed.
func (d *Downloader) Download(ctx context.Context, url, dst string) error {
	attempt := 0
	err := repeater.NewFixed(d.attempts, d.delay).Do(ctx, func() error {
		attempt++
		if attempt > 1 {
			lgr.Printf("[WARN] retry download of %s, attempt %d/%d", url, attempt, d.attempts)
		}
		return d.fetch(ctx, url, dst)
	})
	if err != nil {
		if rmErr := os.Remove(dst); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			lgr.Printf("[WARN] can't remove partial download %s: %v", dst, rmErr)
		}
		return fmt.Errorf("download %s: %w", url, err)
	}
	return nil
}

func (d *Downloader) fetch(ctx context.Context, url, dst string) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	addMediaHeaders(req)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	fh, err := os.Create(dst) //nolint:gosec // destination is built from episode index
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	n, err := io.Copy(fh, resp.Body)
	if err != nil {
		_ = fh.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	lgr.Printf("[DEBUG] downloaded %s to %s, %d bytes", url, dst, n)
	return nil
}
