package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/podloud/pkg/config"
	"github.com/umputun/podloud/pkg/feed"
	"github.com/umputun/podloud/pkg/loudness"
	"github.com/umputun/podloud/pkg/pipeline"
	"github.com/umputun/podloud/pkg/report"
)

// Opts with all CLI options. Empty values keep what the config file or defaults set.
type Opts struct {
	Config          string        `short:"c" long:"config" env:"PODLOUD_CONFIG" description:"yaml config file"`
	OutputDir       string        `short:"o" long:"output-dir" description:"report directory (default: .)"`
	WorkDir         string        `short:"w" long:"work-dir" description:"directory for downloaded episodes (default: .)"`
	FFmpeg          string        `long:"ffmpeg" env:"PODLOUD_FFMPEG" description:"ffmpeg binary (default: ffmpeg)"`
	FeedTimeout     time.Duration `long:"feed-timeout" description:"feed fetch timeout (default: 30s)"`
	DownloadTimeout time.Duration `long:"download-timeout" description:"episode download timeout (default: none)"`
	Retries         int           `long:"retries" description:"download attempts per episode (default: 1)"`
	RetryDelay      time.Duration `long:"retry-delay" description:"delay between download attempts (default: 1s)"`
	UserAgent       string        `long:"user-agent" description:"user agent for http requests"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] feed_url [float_delimiter [output_format [first_episode_number]]]"
	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err = run(ctx, opts, args)
	cancel()

	if err != nil {
		if errors.Is(err, config.ErrNoArguments) {
			parser.WriteHelp(os.Stderr)
		}
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	fmt.Println("Done")
}

// run validates configuration and tool availability before any network access,
// then processes the feed
func run(ctx context.Context, opts Opts, args []string) error {
	cfg, err := loadConfig(opts, args)
	if err != nil {
		return err
	}

	ffmpeg, err := loudness.CheckFFmpeg(cfg.FFmpeg)
	if err != nil {
		return err
	}
	log.Printf("[DEBUG] using %s", ffmpeg)

	for _, dir := range []string{cfg.OutputDir, cfg.WorkDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("make directory %s: %w", dir, err)
		}
	}

	writer, err := report.New(cfg.OutputFormat, cfg.OutputDir, cfg.FloatDelimiter)
	if err != nil {
		return fmt.Errorf("make report writer: %w", err)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("[WARN] close report %s: %v", writer.Path(), err)
		}
	}()

	log.Printf("[INFO] starting podloud %s, feed %s, report %s", revision, cfg.FeedURL, writer.Path())

	downloader := feed.NewDownloader(feed.DownloaderParams{
		Timeout:    cfg.HTTP.DownloadTimeout,
		Attempts:   cfg.HTTP.Retries,
		RetryDelay: cfg.HTTP.RetryDelay,
		UserAgent:  cfg.HTTP.UserAgent,
	})
	episode := pipeline.NewEpisode(downloader, loudness.NewAnalyzer(ffmpeg, loudness.OffsetParser{}), cfg.WorkDir)
	batch := pipeline.NewBatch(feed.NewParser(cfg.HTTP.FeedTimeout, cfg.HTTP.UserAgent), episode, writer,
		pipeline.BatchParams{FeedURL: cfg.FeedURL, FirstEpisode: cfg.FirstEpisode})

	records, err := batch.Run(ctx)
	if err != nil {
		return fmt.Errorf("batch stopped after %d episodes: %w", len(records), err)
	}
	log.Printf("[INFO] %d episodes written to %s", len(records), writer.Path())
	return nil
}

// loadConfig layers defaults, config file, cli options and positional arguments
func loadConfig(opts Opts, args []string) (*config.Config, error) {
	if len(args) == 0 && opts.Config == "" {
		return nil, config.ErrNoArguments
	}

	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.WorkDir != "" {
		cfg.WorkDir = opts.WorkDir
	}
	if opts.FFmpeg != "" {
		cfg.FFmpeg = opts.FFmpeg
	}
	if opts.FeedTimeout != 0 {
		cfg.HTTP.FeedTimeout = opts.FeedTimeout
	}
	if opts.DownloadTimeout != 0 {
		cfg.HTTP.DownloadTimeout = opts.DownloadTimeout
	}
	if opts.Retries != 0 {
		cfg.HTTP.Retries = opts.Retries
	}
	if opts.RetryDelay != 0 {
		cfg.HTTP.RetryDelay = opts.RetryDelay
	}
	if opts.UserAgent != "" {
		cfg.HTTP.UserAgent = opts.UserAgent
	}

	if err := cfg.ApplyArgs(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
