package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"consumption-heatmap/internal/pivot"
	"consumption-heatmap/internal/render"
)

// EnvPrefix prefixes every environment override, e.g. HEATMAP_SERVER_PORT.
const EnvPrefix = "HEATMAP"

// Config is the on-disk configuration shape (YAML). Every field can be
// overridden from the environment.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	CORS      CORSConfig      `yaml:"cors" envconfig:"CORS"`
	Upload    UploadConfig    `yaml:"upload" envconfig:"UPLOAD"`
	Transform TransformConfig `yaml:"transform" envconfig:"TRANSFORM"`
	Render    RenderConfig    `yaml:"render" envconfig:"RENDER"`
	Log       LogConfig       `yaml:"log" envconfig:"LOG"`
}

type ServerConfig struct {
	Port int `yaml:"port" envconfig:"PORT"`
	// Env "production" switches gin to release mode.
	Env             string        `yaml:"env" envconfig:"ENV"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

type UploadConfig struct {
	MaxBytes int64         `yaml:"max_bytes" envconfig:"MAX_BYTES"`
	TTL      time.Duration `yaml:"ttl" envconfig:"TTL"`
}

type TransformConfig struct {
	PreambleRows    int    `yaml:"preamble_rows" envconfig:"PREAMBLE_ROWS"`
	TimestampLayout string `yaml:"timestamp_layout" envconfig:"TIMESTAMP_LAYOUT"`
	// Duplicates is "keep-first" or "keep-last".
	Duplicates string `yaml:"duplicates" envconfig:"DUPLICATES"`
	// Timezone is an IANA name the timestamps are read in.
	Timezone string `yaml:"timezone" envconfig:"TIMEZONE"`
}

type RenderConfig struct {
	// PlotlyURL is the plotly.js script embedded in html exports; empty keeps
	// the page fully offline with only the SVG chart.
	PlotlyURL       string `yaml:"plotly_url" envconfig:"PLOTLY_URL"`
	TempDir         string `yaml:"temp_dir" envconfig:"TEMP_DIR"`
	DefaultTitle    string `yaml:"default_title" envconfig:"DEFAULT_TITLE"`
	DefaultFileName string `yaml:"default_file_name" envconfig:"DEFAULT_FILE_NAME"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// Default returns the configuration used when no file or env override is
// present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Env:             "development",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		CORS: CORSConfig{AllowedOrigins: []string{"*"}},
		Upload: UploadConfig{
			MaxBytes: 32 << 20,
			TTL:      30 * time.Minute,
		},
		Transform: TransformConfig{
			PreambleRows:    pivot.DefaultPreambleRows,
			TimestampLayout: pivot.DefaultTimestampLayout,
			Duplicates:      string(pivot.KeepFirst),
			Timezone:        "UTC",
		},
		Render: RenderConfig{
			PlotlyURL:       "https://cdn.plot.ly/plotly-2.35.2.min.js",
			DefaultTitle:    "Heatmapa spotřeby elektřiny",
			DefaultFileName: render.DefaultFileName,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path (optional), applies environment overrides and validates.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("upload.max_bytes must be positive"))
	}
	if c.Upload.TTL <= 0 {
		errs = append(errs, errors.New("upload.ttl must be positive"))
	}
	if c.Transform.PreambleRows < 0 {
		errs = append(errs, errors.New("transform.preamble_rows must not be negative"))
	}
	if strings.TrimSpace(c.Transform.TimestampLayout) == "" {
		errs = append(errs, errors.New("transform.timestamp_layout is required"))
	}
	if _, err := pivot.ParseDuplicatePolicy(c.Transform.Duplicates); err != nil {
		errs = append(errs, fmt.Errorf("transform.duplicates: %w", err))
	}
	if _, err := time.LoadLocation(c.Transform.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("transform.timezone: %w", err))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q (want text or json)", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config invalid: %w", errors.Join(errs...))
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

// Options converts the transform section into pipeline options.
func (t TransformConfig) Options() (pivot.Options, error) {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return pivot.Options{}, err
	}
	return pivot.Options{
		PreambleRows:    t.PreambleRows,
		TimestampLayout: t.TimestampLayout,
		Location:        loc,
	}, nil
}

// DuplicatePolicy is the deployment default, used when a request names none.
func (t TransformConfig) DuplicatePolicy() pivot.DuplicatePolicy {
	p, err := pivot.ParseDuplicatePolicy(t.Duplicates)
	if err != nil {
		return pivot.KeepFirst
	}
	return p
}
