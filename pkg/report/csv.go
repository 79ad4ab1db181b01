package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/umputun/podloud/pkg/domain"
)

var csvHeader = []string{"index", "Title", "I", "I Threshold", "LRA", "LRA T", "LRA L", "LRA H"}

// CSVWriter renders records as semicolon separated rows. Text is always double-quoted,
// numbers use the configured decimal separator.
type CSVWriter struct {
	path      string
	delimiter string
}

// Write replaces the csv file with all records
func (w *CSVWriter) Write(records []domain.LoudnessRecord) error {
	return writeFileAtomic(w.path, []byte(w.Render(records)))
}

// Render returns csv content for records
func (w *CSVWriter) Render(records []domain.LoudnessRecord) string {
	var sb strings.Builder
	for i, h := range csvHeader {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(quote(h))
	}
	sb.WriteByte('\n')

	for _, r := range records {
		sb.WriteString(strconv.Itoa(r.Index))
		sb.WriteByte(';')
		sb.WriteString(quote(r.Title))
		for _, v := range []float64{r.I, r.IThreshold, r.LRA, r.LRAThreshold, r.LRALow, r.LRAHigh} {
			sb.WriteByte(';')
			sb.WriteString(FormatFloat(v, w.delimiter))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Path returns the report location
func (w *CSVWriter) Path() string { return w.path }

// Close does nothing, csv is written in full on every Write
func (w *CSVWriter) Close() error { return nil }

// FormatFloat renders v in its shortest exact decimal form, integral values keep ".0",
// with the decimal point replaced by delimiter
func FormatFloat(v float64, delimiter string) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return strings.Replace(s, ".", delimiter, 1)
}

// quote wraps s in double quotes. Titles are sanitized upstream, a stray quote is doubled.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
