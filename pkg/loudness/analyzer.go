// Package loudness measures EBU R128 loudness of media files with ffmpeg's ebur128 filter
// and parses the summary it prints.
package loudness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podloud/pkg/domain"
)

// ErrFFmpegNotFound returned by CheckFFmpeg when the binary can't be located
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

const stderrTail = 512 // bytes of ffmpeg output kept in errors

// Analyzer runs a full-file ebur128 pass and parses its summary
type Analyzer struct {
	ffmpeg string
	parser SummaryParser
}

// NewAnalyzer makes an analyzer for the given ffmpeg binary, "ffmpeg" if empty.
// parser defaults to OffsetParser.
func NewAnalyzer(ffmpeg string, parser SummaryParser) *Analyzer {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if parser == nil {
		parser = OffsetParser{}
	}
	return &Analyzer{ffmpeg: ffmpeg, parser: parser}
}

// Measure returns loudness statistics of a local media file
func (a *Analyzer) Measure(ctx context.Context, path string) (domain.Loudness, error) {
	cmd := exec.CommandContext(ctx, a.ffmpeg, Args(path)...) //nolint:gosec // binary and path are controlled by us
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	lgr.Printf("[DEBUG] run %s %s", a.ffmpeg, strings.Join(Args(path), " "))
	if err := cmd.Run(); err != nil {
		return domain.Loudness{}, fmt.Errorf("run ffmpeg on %s: %w, output: %s", path, err, tail(stderr.String()))
	}

	res, err := a.parser.Parse(stderr.String())
	if err != nil {
		return domain.Loudness{}, fmt.Errorf("parse ffmpeg output for %s: %w", path, err)
	}
	lgr.Printf("[DEBUG] loudness of %s: %+v", path, res)
	return res, nil
}

// Args returns ffmpeg arguments for a loudness-only pass: no progress stats, decoded media dropped
func Args(path string) []string {
	return []string{"-nostats", "-i", path, "-filter_complex", "[a:0]ebur128", "-f", "null", "-"}
}

// CheckFFmpeg verifies the ffmpeg binary is available and returns its resolved path
func CheckFFmpeg(ffmpeg string) (string, error) {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	path, err := exec.LookPath(ffmpeg)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrFFmpegNotFound, ffmpeg)
	}
	return path, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= stderrTail {
		return s
	}
	return "..." + s[len(s)-stderrTail:]
}
