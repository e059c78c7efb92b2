package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"csvbrowse/internal/ingest"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Config struct {
	Source       string
	UseStdin     bool
	Follow       bool
	Where        string
	Query        string
	Print        bool
	Serve        string
	Theme        Theme
	LoadTimeout  time.Duration
	ExportFormat string
	ExportOut    string
	ConfigPath   string
	ShowVersion  bool

	// Internal
	IsPipedStdin bool
	sourceSet    bool
}

// FileConfig is the optional YAML defaults file. Environment variables and
// flags override it.
type FileConfig struct {
	Source      string `yaml:"source"`
	Follow      bool   `yaml:"follow"`
	Where       string `yaml:"where"`
	Query       string `yaml:"query"`
	Serve       string `yaml:"serve"`
	Theme       string `yaml:"theme"`
	LoadTimeout string `yaml:"load_timeout"`
	Export      string `yaml:"export"`
	Out         string `yaml:"out"`
}

func Load() (*Config, error) {
	// Detect if stdin is piped
	piped := false
	if fi, err := os.Stdin.Stat(); err == nil {
		piped = (fi.Mode() & os.ModeCharDevice) == 0
	}
	return Parse(os.Args[1:], piped)
}

// Parse builds a Config from command-line args. Precedence, lowest first:
// built-in defaults, the --config YAML file, CSVBROWSE_* environment
// variables, flags.
func Parse(args []string, pipedStdin bool) (*Config, error) {
	cfg := &Config{IsPipedStdin: pipedStdin}

	fc := FileConfig{}
	path := getenvDefault("CSVBROWSE_CONFIG", scanConfigFlag(args))
	if path != "" {
		var err error
		if fc, err = readFile(path); err != nil {
			return nil, err
		}
	}

	defTimeout := time.Duration(0)
	if fc.LoadTimeout != "" {
		d, err := time.ParseDuration(fc.LoadTimeout)
		if err != nil {
			return nil, fmt.Errorf("config %s: load_timeout: %w", path, err)
		}
		defTimeout = d
	}

	fs := flag.NewFlagSet("csvbrowse", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	defSource := getenvDefault("CSVBROWSE_SOURCE", fc.Source)
	fs.StringVar(&cfg.ConfigPath, "config", path, "YAML file with default settings")
	fs.StringVar(&cfg.Source, "source", defSource, "data source: file path, http(s) URL or - for stdin (default \""+ingest.DefaultRef+"\")")
	fs.BoolVar(&cfg.UseStdin, "stdin", false, "read the dataset from stdin (default: auto if piped)")
	fs.BoolVar(&cfg.Follow, "follow", getenvDefaultBool("CSVBROWSE_FOLLOW", fc.Follow), "keep reading rows appended to the source file")
	fs.StringVar(&cfg.Where, "where", getenvDefault("CSVBROWSE_WHERE", fc.Where), "expression rows must satisfy, e.g. \"price > 10\"")
	fs.StringVar(&cfg.Query, "query", getenvDefault("CSVBROWSE_QUERY", fc.Query), "initial search query")
	fs.BoolVar(&cfg.Print, "print", false, "print the filtered table to stdout and exit")
	fs.StringVar(&cfg.Serve, "serve", getenvDefault("CSVBROWSE_SERVE", fc.Serve), "serve the table over HTTP on this address (e.g. :8080)")
	theme := getenvDefault("CSVBROWSE_THEME", fc.Theme)
	if theme == "" {
		theme = string(ThemeDark)
	}
	fs.StringVar(&theme, "theme", theme, "theme: dark|light")
	fs.DurationVar(&cfg.LoadTimeout, "load-timeout", getenvDefaultDuration("CSVBROWSE_LOAD_TIMEOUT", defTimeout), "bound the initial load (0 = no limit)")
	fs.StringVar(&cfg.ExportFormat, "export", getenvDefault("CSVBROWSE_EXPORT", fc.Export), "export filtered view: csv|json")
	fs.StringVar(&cfg.ExportOut, "out", getenvDefault("CSVBROWSE_OUT", fc.Out), "output path for export")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Theme = Theme(theme)
	cfg.sourceSet = cfg.Source != ""
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "source" {
			cfg.sourceSet = true
		}
	})

	// Determine input source defaults
	if cfg.UseStdin || cfg.Source == "-" || (cfg.IsPipedStdin && !cfg.sourceSet) {
		cfg.UseStdin = true
		cfg.Source = "-"
	}
	if cfg.Source == "" {
		cfg.Source = ingest.DefaultRef
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("--theme must be dark or light, got %q", c.Theme)
	}
	if c.ExportFormat != "" && c.ExportFormat != "csv" && c.ExportFormat != "json" {
		return fmt.Errorf("--export must be csv or json, got %q", c.ExportFormat)
	}
	if c.ExportFormat != "" && c.ExportOut == "" {
		return errors.New("--export requires --out path")
	}
	if c.Print && c.Serve != "" {
		return errors.New("--print and --serve are mutually exclusive")
	}
	if c.Follow {
		if c.Print || c.Serve != "" {
			return errors.New("--follow is only available in the terminal UI")
		}
		if ingest.Kind(c.Source) != ingest.SourceFile {
			return errors.New("--follow requires a file source")
		}
	}
	if c.LoadTimeout < 0 {
		return errors.New("--load-timeout must not be negative")
	}
	return nil
}

// Mode names the surface selected by the configuration.
func (c *Config) Mode() string {
	switch {
	case c.Print:
		return "print"
	case c.Serve != "":
		return "serve"
	default:
		return "tui"
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("source=%s mode=%s follow=%v theme=%s where=%q", c.Source, c.Mode(), c.Follow, c.Theme, c.Where)
}

func readFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("config %s: %w", path, err)
	}
	return fc, nil
}

// scanConfigFlag finds --config before the flag set is built, so the file
// can supply the other flags' defaults.
func scanConfigFlag(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			break
		}
		name := strings.TrimLeft(a, "-")
		if name == a {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func getenvDefaultDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := time.ParseDuration(v); err == nil {
			return n
		}
	}
	return d
}
