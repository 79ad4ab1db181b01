package loudness

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/podloud/pkg/domain"
)

// fakeFFmpeg writes a shell script standing in for ffmpeg and returns its path
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700)) //nolint:gosec // test script
	return path
}

func TestAnalyzer_Measure(t *testing.T) {
	fixture, err := filepath.Abs("testdata/ebur128.txt")
	require.NoError(t, err)

	t.Run("parses summary from stderr", func(t *testing.T) {
		argsFile := filepath.Join(t.TempDir(), "args")
		bin := fakeFFmpeg(t, `echo "$@" > `+argsFile+`
cat `+fixture+` >&2`)

		res, err := NewAnalyzer(bin, nil).Measure(context.Background(), "7.mp3")
		require.NoError(t, err)
		assert.Equal(t, expected, res)

		args, err := os.ReadFile(argsFile) //nolint:gosec // test file
		require.NoError(t, err)
		assert.Equal(t, "-nostats -i 7.mp3 -filter_complex [a:0]ebur128 -f null -", strings.TrimSpace(string(args)))
	})

	t.Run("stdout is not parsed", func(t *testing.T) {
		bin := fakeFFmpeg(t, `cat `+fixture)
		_, err := NewAnalyzer(bin, nil).Measure(context.Background(), "7.mp3")
		require.ErrorIs(t, err, ErrNoSummary)
	})

	t.Run("ffmpeg failure", func(t *testing.T) {
		bin := fakeFFmpeg(t, `echo "7.mp3: No such file or directory" >&2
exit 1`)
		_, err := NewAnalyzer(bin, nil).Measure(context.Background(), "7.mp3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run ffmpeg on 7.mp3")
		assert.Contains(t, err.Error(), "No such file or directory")
	})

	t.Run("unexpected output shape", func(t *testing.T) {
		bin := fakeFFmpeg(t, `echo "Summary: I: -16.2 LUFS" >&2`)
		_, err := NewAnalyzer(bin, nil).Measure(context.Background(), "7.mp3")
		require.ErrorIs(t, err, ErrMissingLabel)
		assert.Contains(t, err.Error(), "parse ffmpeg output for 7.mp3")
	})

	t.Run("custom parser", func(t *testing.T) {
		bin := fakeFFmpeg(t, `echo "anything" >&2`)
		res, err := NewAnalyzer(bin, ParserFunc(func(string) (domain.Loudness, error) { return expected, nil })).
			Measure(context.Background(), "7.mp3")
		require.NoError(t, err)
		assert.Equal(t, expected, res)
	})

	t.Run("canceled context", func(t *testing.T) {
		bin := fakeFFmpeg(t, `sleep 5`)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewAnalyzer(bin, nil).Measure(ctx, "7.mp3")
		require.Error(t, err)
	})
}

func TestCheckFFmpeg(t *testing.T) {
	t.Run("missing binary", func(t *testing.T) {
		_, err := CheckFFmpeg(filepath.Join(t.TempDir(), "no-such-ffmpeg"))
		require.ErrorIs(t, err, ErrFFmpegNotFound)
	})

	t.Run("explicit path", func(t *testing.T) {
		bin := fakeFFmpeg(t, "exit 0")
		path, err := CheckFFmpeg(bin)
		require.NoError(t, err)
		assert.Equal(t, bin, path)
	})
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("  short\n"))
	long := strings.Repeat("a", stderrTail+10)
	res := tail(long)
	assert.True(t, strings.HasPrefix(res, "..."))
	assert.Len(t, res, stderrTail+3)
}
