// Package pipeline measures podcast episodes one at a time: download, measure, remove the
// media file, and checkpoint the accumulated results after every episode.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podloud/pkg/domain"
)

//go:generate moq -out mocks/downloader.go -pkg mocks -skip-ensure -fmt goimports . Downloader
//go:generate moq -out mocks/measurer.go -pkg mocks -skip-ensure -fmt goimports . Measurer

// ErrNoEnclosure returned for a feed entry without downloadable media
var ErrNoEnclosure = errors.New("no enclosure link")

const defaultMediaExt = ".mp3"

// Downloader saves a remote resource to a local file
type Downloader interface {
	Download(ctx context.Context, url, dst string) error
}

// Measurer returns loudness statistics of a local media file
type Measurer interface {
	Measure(ctx context.Context, path string) (domain.Loudness, error)
}

// Episode turns a single feed entry into a loudness record
type Episode struct {
	downloader Downloader
	measurer   Measurer
	workDir    string
}

// NewEpisode makes an episode processor keeping transient media in workDir
func NewEpisode(downloader Downloader, measurer Measurer, workDir string) *Episode {
	if workDir == "" {
		workDir = "."
	}
	return &Episode{downloader: downloader, measurer: measurer, workDir: workDir}
}

// Process downloads the entry's enclosure, measures it and removes the downloaded file
// on every path out, including failed measurement
func (e *Episode) Process(ctx context.Context, entry domain.FeedEntry, index int) (domain.LoudnessRecord, error) {
	title := SanitizeTitle(entry.Title)
	href, ok := entry.Enclosure()
	if !ok {
		return domain.LoudnessRecord{}, fmt.Errorf("episode %d %q: %w", index, title, ErrNoEnclosure)
	}
	lgr.Printf("[INFO] %s - %s", title, href)

	file := e.MediaPath(index, href)
	defer e.remove(file)

	if err := e.downloader.Download(ctx, href, file); err != nil {
		return domain.LoudnessRecord{}, fmt.Errorf("episode %d %q: %w", index, title, err)
	}

	stats, err := e.measurer.Measure(ctx, file)
	if err != nil {
		return domain.LoudnessRecord{}, fmt.Errorf("episode %d %q: %w", index, title, err)
	}

	return domain.LoudnessRecord{Index: index, Title: title, Loudness: stats}, nil
}

// SanitizeTitle replaces double quotes with single quotes and keeps everything else as is
func SanitizeTitle(title string) string {
	return strings.ReplaceAll(title, `"`, "'")
}

// MediaPath returns the transient file for an episode, named by index with the
// extension of the enclosure url
func (e *Episode) MediaPath(index int, href string) string {
	return filepath.Join(e.workDir, strconv.Itoa(index)+mediaExt(href))
}

func (e *Episode) remove(file string) {
	if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
		lgr.Printf("[WARN] can't remove %s: %v", file, err)
	}
}

func mediaExt(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return defaultMediaExt
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if len(ext) < 2 || len(ext) > 5 {
		return defaultMediaExt
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return defaultMediaExt
		}
	}
	return ext
}
