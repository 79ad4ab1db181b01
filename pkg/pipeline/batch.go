package pipeline

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podloud/pkg/domain"
)

//go:generate moq -out mocks/feed_parser.go -pkg mocks -skip-ensure -fmt goimports . FeedParser
//go:generate moq -out mocks/report_writer.go -pkg mocks -skip-ensure -fmt goimports . ReportWriter

// FeedParser returns entries of a feed in listing order, newest first
type FeedParser interface {
	Parse(ctx context.Context, url string) ([]domain.FeedEntry, error)
}

// ReportWriter rewrites the report with all records collected so far
type ReportWriter interface {
	Write(records []domain.LoudnessRecord) error
}

// Job is a feed entry with its assigned index
type Job struct {
	Entry domain.FeedEntry
	Index int
}

// Batch processes every entry of a feed sequentially, oldest first
type Batch struct {
	BatchParams
	parser  FeedParser
	episode *Episode
	writer  ReportWriter
}

// BatchParams configures Batch
type BatchParams struct {
	FeedURL      string
	FirstEpisode int // index of the oldest episode
}

// NewBatch makes a batch runner
func NewBatch(parser FeedParser, episode *Episode, writer ReportWriter, params BatchParams) *Batch {
	return &Batch{BatchParams: params, parser: parser, episode: episode, writer: writer}
}

// Run fetches the feed and processes all entries. The report is rewritten after each episode,
// so on failure everything processed before stays on disk. The first failed episode stops the run.
func (b *Batch) Run(ctx context.Context) ([]domain.LoudnessRecord, error) {
	entries, err := b.parser.Parse(ctx, b.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("get feed %s: %w", b.FeedURL, err)
	}
	lgr.Printf("[INFO] %d episodes in %s", len(entries), b.FeedURL)

	jobs := Schedule(entries, b.FirstEpisode)
	results := make([]domain.LoudnessRecord, 0, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		rec, err := b.episode.Process(ctx, job.Entry, job.Index)
		if err != nil {
			return results, err
		}
		results = append(results, rec)
		if err := b.writer.Write(results); err != nil {
			return results, fmt.Errorf("write report: %w", err)
		}
		lgr.Printf("[DEBUG] episode %d done, %d/%d, I=%v LRA=%v", rec.Index, i+1, len(jobs), rec.I, rec.LRA)
	}
	return results, nil
}

// Schedule orders entries for processing. Feeds list newest first, so entries are reversed
// and the oldest gets index first, the newest first+len(entries)-1.
func Schedule(entries []domain.FeedEntry, first int) []Job {
	jobs := make([]Job, 0, len(entries))
	for j := range entries {
		jobs = append(jobs, Job{Entry: entries[len(entries)-1-j], Index: first + j})
	}
	return jobs
}
