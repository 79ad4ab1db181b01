package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// DefaultFeedURL is used when neither the command line nor the config file names a feed
const DefaultFeedURL = "https://letscast.fm/podcasts/darwin-pod-dd57bfef/feed"

// output formats
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

// Formats lists all supported output formats
var Formats = []string{FormatCSV, FormatJSON, FormatYAML, FormatSQLite}

var (
	// ErrUnknownFormat returned for an unsupported output format
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrNoArguments returned when the command line has nothing to work with
	ErrNoArguments = errors.New("no arguments given")
)

// Config holds the application configuration. It is read once at startup and not changed afterwards.
type Config struct {
	FeedURL        string `yaml:"feed_url" json:"feed_url" jsonschema:"description=URL of the podcast feed to analyse"`
	FloatDelimiter string `yaml:"float_delimiter" json:"float_delimiter" jsonschema:"description=Decimal separator for numbers in csv output (comma by default)"`
	OutputFormat   string `yaml:"output_format" json:"output_format" jsonschema:"default=csv,enum=csv,enum=json,enum=yaml,enum=sqlite,description=Report format"`
	FirstEpisode   int    `yaml:"first_episode" json:"first_episode" jsonschema:"default=0,description=Index of the oldest episode"`
	OutputDir      string `yaml:"output_dir" json:"output_dir" jsonschema:"default=.,description=Directory for the report file"`
	WorkDir        string `yaml:"work_dir" json:"work_dir" jsonschema:"default=.,description=Directory for downloaded episodes"`
	FFmpeg         string `yaml:"ffmpeg" json:"ffmpeg" jsonschema:"default=ffmpeg,description=ffmpeg binary"`

	HTTP struct {
		FeedTimeout     time.Duration `yaml:"feed_timeout" json:"feed_timeout" jsonschema:"default=30s,description=Feed fetch timeout"`
		DownloadTimeout time.Duration `yaml:"download_timeout" json:"download_timeout" jsonschema:"default=0,description=Episode download timeout, 0 for none"`
		Retries         int           `yaml:"retries" json:"retries" jsonschema:"default=1,minimum=1,description=Download attempts per episode"`
		RetryDelay      time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=1s,description=Delay between download attempts"`
		UserAgent       string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=podloud/1.0,description=User agent for HTTP requests"`
	} `yaml:"http" json:"http" jsonschema:"description=HTTP client configuration"`
}

// Default returns configuration with all defaults set
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file, missing values get defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	setDefaults(cfg)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.FeedURL == "" {
		cfg.FeedURL = DefaultFeedURL
	}
	if cfg.FloatDelimiter == "" {
		cfg.FloatDelimiter = ","
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = FormatCSV
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.FFmpeg == "" {
		cfg.FFmpeg = "ffmpeg"
	}
	if cfg.HTTP.FeedTimeout == 0 {
		cfg.HTTP.FeedTimeout = 30 * time.Second
	}
	if cfg.HTTP.Retries == 0 {
		cfg.HTTP.Retries = 1
	}
	if cfg.HTTP.RetryDelay == 0 {
		cfg.HTTP.RetryDelay = time.Second
	}
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = "podloud/1.0"
	}
}

// ApplyArgs overlays positional arguments: feed_url [float_delimiter [output_format [first_episode_number]]].
// Extra arguments are ignored.
func (c *Config) ApplyArgs(args []string) error {
	if len(args) > 0 {
		c.FeedURL = args[0]
	}
	if len(args) > 1 {
		c.FloatDelimiter = args[1]
	}
	if len(args) > 2 {
		c.OutputFormat = args[2]
	}
	if len(args) > 3 {
		n, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("first episode number %q: %w", args[3], err)
		}
		c.FirstEpisode = n
	}
	return nil
}

// Validate checks configuration for correctness
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.OutputFormat) {
		return fmt.Errorf("%w: %q, expected one of %v", ErrUnknownFormat, c.OutputFormat, Formats)
	}

	u, err := url.Parse(c.FeedURL)
	if err != nil {
		return fmt.Errorf("parse feed url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("feed url must be an absolute http(s) url, got %q", c.FeedURL)
	}

	if c.HTTP.Retries < 1 {
		return fmt.Errorf("http.retries must be at least 1")
	}
	if c.HTTP.FeedTimeout < 0 || c.HTTP.DownloadTimeout < 0 || c.HTTP.RetryDelay < 0 {
		return fmt.Errorf("http timeouts and delays must not be negative")
	}
	return nil
}
