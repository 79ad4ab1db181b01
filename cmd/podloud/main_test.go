package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/podloud/pkg/config"
)

const ebur128Summary = `[Parsed_ebur128_0 @ 0x5581] Summary:

  Integrated loudness:
    I:         -16.2 LUFS
    Threshold: -26.3 LUFS

  Loudness range:
    LRA:         7.1 LU
    Threshold:  -36.3 LUFS
    LRA low:    -23.1 LUFS
    LRA high:   -13.4 LUFS
`

// fakeFFmpeg writes a script printing a fixed ebur128 summary to stderr
func fakeFFmpeg(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	dir := t.TempDir()
	summary := filepath.Join(dir, "summary.txt")
	require.NoError(t, os.WriteFile(summary, []byte(ebur128Summary), 0o600))
	bin := filepath.Join(dir, "ffmpeg")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\ncat "+summary+" >&2\n"), 0o700)) //nolint:gosec // test script
	return bin
}

// podcastServer serves a two-episode feed, newest first, and the episode media
func podcastServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Path {
		case "/feed.xml":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Pod</title>
<item><title>Second "episode"</title><enclosure url="` + srv.URL + `/media/2.mp3" type="audio/mpeg" length="5"/></item>
<item><title>First episode</title><enclosure url="` + srv.URL + `/media/1.mp3" type="audio/mpeg" length="5"/></item>
</channel></rss>`))
		case "/media/1.mp3", "/media/2.mp3":
			_, _ = w.Write([]byte("media"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun(t *testing.T) {
	setupLog(false)

	t.Run("csv report", func(t *testing.T) {
		var hits int32
		srv := podcastServer(t, &hits)
		outDir, workDir := t.TempDir(), t.TempDir()
		opts := Opts{OutputDir: outDir, WorkDir: workDir, FFmpeg: fakeFFmpeg(t)}

		err := run(context.Background(), opts, []string{srv.URL + "/feed.xml"})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(outDir, "loudness.csv")) //nolint:gosec // test file
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, `"index";"Title";"I";"I Threshold";"LRA";"LRA T";"LRA L";"LRA H"`, lines[0])
		assert.Equal(t, `0;"First episode";-16,2;-26,3;7,1;-36,3;-23,1;-13,4`, lines[1])
		assert.Equal(t, `1;"Second 'episode'";-16,2;-26,3;7,1;-36,3;-23,1;-13,4`, lines[2])

		files, err := os.ReadDir(workDir)
		require.NoError(t, err)
		assert.Empty(t, files, "downloaded media must be removed")
	})

	t.Run("json report with all positional args", func(t *testing.T) {
		var hits int32
		srv := podcastServer(t, &hits)
		outDir := t.TempDir()
		opts := Opts{OutputDir: outDir, WorkDir: t.TempDir(), FFmpeg: fakeFFmpeg(t)}

		err := run(context.Background(), opts, []string{srv.URL + "/feed.xml", ".", "json", "1"})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(outDir, "loudness.json")) //nolint:gosec // test file
		require.NoError(t, err)
		assert.Contains(t, string(data), `"index":1,"title":"First episode"`)
		assert.Contains(t, string(data), `"index":2,"title":"Second 'episode'"`)
	})

	t.Run("unknown format fails before network", func(t *testing.T) {
		var hits int32
		srv := podcastServer(t, &hits)
		opts := Opts{OutputDir: t.TempDir(), WorkDir: t.TempDir(), FFmpeg: fakeFFmpeg(t)}

		err := run(context.Background(), opts, []string{srv.URL + "/feed.xml", ",", "xml"})
		require.ErrorIs(t, err, config.ErrUnknownFormat)
		assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	})

	t.Run("missing ffmpeg fails before network", func(t *testing.T) {
		var hits int32
		srv := podcastServer(t, &hits)
		opts := Opts{OutputDir: t.TempDir(), FFmpeg: filepath.Join(t.TempDir(), "no-ffmpeg")}

		err := run(context.Background(), opts, []string{srv.URL + "/feed.xml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ffmpeg not found")
		assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	})

	t.Run("no arguments", func(t *testing.T) {
		err := run(context.Background(), Opts{}, nil)
		require.ErrorIs(t, err, config.ErrNoArguments)
	})

	t.Run("feed failure", func(t *testing.T) {
		var hits int32
		srv := podcastServer(t, &hits)
		opts := Opts{OutputDir: t.TempDir(), WorkDir: t.TempDir(), FFmpeg: fakeFFmpeg(t)}
		err := run(context.Background(), opts, []string{srv.URL + "/missing.xml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 404")
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("config file with cli overrides", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "podloud.yml")
		require.NoError(t, os.WriteFile(configPath, []byte(`
feed_url: https://example.com/from-file.xml
output_format: yaml
http:
  retries: 2
`), 0o600))

		cfg, err := loadConfig(Opts{Config: configPath, Retries: 5, FeedTimeout: time.Minute}, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/from-file.xml", cfg.FeedURL)
		assert.Equal(t, config.FormatYAML, cfg.OutputFormat)
		assert.Equal(t, 5, cfg.HTTP.Retries)
		assert.Equal(t, time.Minute, cfg.HTTP.FeedTimeout)

		cfg, err = loadConfig(Opts{Config: configPath}, []string{"https://example.com/arg.xml", ",", "csv"})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/arg.xml", cfg.FeedURL)
		assert.Equal(t, config.FormatCSV, cfg.OutputFormat)
		assert.Equal(t, 2, cfg.HTTP.Retries)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := loadConfig(Opts{Config: "non-existent-config.yml"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})

	t.Run("bad episode number", func(t *testing.T) {
		_, err := loadConfig(Opts{}, []string{"https://example.com/f.xml", ",", "csv", "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "first episode number")
	})
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		setupLog(true)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		setupLog(false)
	})

	t.Run("with secrets", func(t *testing.T) {
		setupLog(true, "secret1", "secret2")
	})
}
