package loudness

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/umputun/podloud/pkg/domain"
)

// summaryMarker precedes the final aggregate block of the ebur128 filter
const summaryMarker = "Summary:"

var (
	// ErrNoSummary returned when the tool output has no summary block
	ErrNoSummary = errors.New("no loudness summary in ffmpeg output")
	// ErrMissingLabel returned when an expected label or its value is absent from the summary
	ErrMissingLabel = errors.New("missing value in loudness summary")
)

// anchor describes where a statistic sits relative to a label token of the summary.
// ebur128 prints e.g. "I: -16.2 LUFS Threshold: -26.3 LUFS", so the threshold is 4 tokens after "I:".
type anchor struct {
	label  string
	offset int
	dst    func(l *domain.Loudness) *float64
}

var anchors = []anchor{
	{label: "I:", offset: 1, dst: func(l *domain.Loudness) *float64 { return &l.I }},
	{label: "I:", offset: 4, dst: func(l *domain.Loudness) *float64 { return &l.IThreshold }},
	{label: "LRA:", offset: 1, dst: func(l *domain.Loudness) *float64 { return &l.LRA }},
	{label: "LRA:", offset: 4, dst: func(l *domain.Loudness) *float64 { return &l.LRAThreshold }},
	{label: "low:", offset: 1, dst: func(l *domain.Loudness) *float64 { return &l.LRALow }},
	{label: "high:", offset: 1, dst: func(l *domain.Loudness) *float64 { return &l.LRAHigh }},
}

// SummaryParser turns the textual output of a loudness measurement into statistics
type SummaryParser interface {
	Parse(output string) (domain.Loudness, error)
}

// ParserFunc adapts a function to SummaryParser
type ParserFunc func(output string) (domain.Loudness, error)

// Parse calls f(output)
func (f ParserFunc) Parse(output string) (domain.Loudness, error) { return f(output) }

// OffsetParser reads values at fixed token offsets from anchor labels of the last summary block.
// All six statistics must be present, there are no defaults.
type OffsetParser struct{}

// Parse extracts loudness statistics from ffmpeg ebur128 output
func (OffsetParser) Parse(output string) (domain.Loudness, error) {
	pos := strings.LastIndex(output, summaryMarker)
	if pos < 0 {
		return domain.Loudness{}, ErrNoSummary
	}
	tokens := strings.Fields(output[pos:])

	var res domain.Loudness
	for _, a := range anchors {
		idx := slices.Index(tokens, a.label)
		if idx < 0 {
			return domain.Loudness{}, fmt.Errorf("label %q: %w", a.label, ErrMissingLabel)
		}
		if idx+a.offset >= len(tokens) {
			return domain.Loudness{}, fmt.Errorf("value %d tokens after %q: %w", a.offset, a.label, ErrMissingLabel)
		}
		v, err := strconv.ParseFloat(tokens[idx+a.offset], 64)
		if err != nil {
			return domain.Loudness{}, fmt.Errorf("parse value after %q: %w", a.label, err)
		}
		*a.dst(&res) = v
	}
	return res, nil
}

