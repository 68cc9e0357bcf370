package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"
)

// Config holds all application configuration.
type Config struct {
	Site    SiteConfig    `koanf:"site" validate:"required"`
	Browser BrowserConfig `koanf:"browser"`
	Output  OutputConfig  `koanf:"output" validate:"required"`
}

// SiteConfig identifies the report page and which branches to traverse.
type SiteConfig struct {
	URL         string   `koanf:"url" validate:"required,url"`
	StateFilter string   `koanf:"state_filter"`
	Controls    Controls `koanf:"controls"`
}

// Controls maps each dropdown level to its DOM element ID.
type Controls struct {
	State     string `koanf:"state"`
	District  string `koanf:"district"`
	Block     string `koanf:"block"`
	Panchayat string `koanf:"panchayat"`
	Year      string `koanf:"year"`
	Date      string `koanf:"date"`
	Option    string `koanf:"option"`
}

// BrowserConfig holds settings for the headless browser session.
type BrowserConfig struct {
	Headless      bool          `koanf:"headless"`
	NoSandbox     bool          `koanf:"no_sandbox"`
	ChromePath    string        `koanf:"chrome_path"`
	Timeout       time.Duration `koanf:"timeout"`
	OptionTimeout time.Duration `koanf:"option_timeout"`
	Settle        time.Duration `koanf:"settle"`
	SelectRetries int           `koanf:"select_retries"`
}

// OutputConfig holds the archive destination and resume sources.
type OutputConfig struct {
	Dir       string   `koanf:"dir" validate:"required"`
	ExtraDirs []string `koanf:"extra_dirs"`
	Manifest  string   `koanf:"manifest"`
}

// Load reads and validates configuration from a YAML file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills in the optional knobs. The control IDs default to the
// ones the target ASPX page has carried for years.
func (c *Config) applyDefaults() {
	if c.Site.StateFilter == "" {
		c.Site.StateFilter = "meghalaya"
	}

	ctl := &c.Site.Controls
	defaults := Controls{
		State:     "ctl00_ContentPlaceHolder1_ddlstate",
		District:  "ctl00_ContentPlaceHolder1_ddldistrict",
		Block:     "ctl00_ContentPlaceHolder1_ddlBlock",
		Panchayat: "ctl00_ContentPlaceHolder1_ddlPanchayat",
		Year:      "ctl00_ContentPlaceHolder1_ddlAuditYear",
		Date:      "ctl00_ContentPlaceHolder1_ddlGSDate",
		Option:    "ctl00_ContentPlaceHolder1_ddlselect",
	}
	if ctl.State == "" {
		ctl.State = defaults.State
	}
	if ctl.District == "" {
		ctl.District = defaults.District
	}
	if ctl.Block == "" {
		ctl.Block = defaults.Block
	}
	if ctl.Panchayat == "" {
		ctl.Panchayat = defaults.Panchayat
	}
	if ctl.Year == "" {
		ctl.Year = defaults.Year
	}
	if ctl.Date == "" {
		ctl.Date = defaults.Date
	}
	if ctl.Option == "" {
		ctl.Option = defaults.Option
	}

	if c.Browser.Timeout == 0 {
		c.Browser.Timeout = 20 * time.Second
	}
	if c.Browser.OptionTimeout == 0 {
		c.Browser.OptionTimeout = 10 * time.Second
	}
	if c.Browser.Settle == 0 {
		c.Browser.Settle = 2 * time.Second
	}
	if c.Browser.SelectRetries == 0 {
		c.Browser.SelectRetries = 1
	}

	if c.Output.Manifest == "" && c.Output.Dir != "" {
		c.Output.Manifest = filepath.Join(c.Output.Dir, "manifest.jsonl")
	}
}

// ConfigFrom extracts the Config from the CLI command metadata.
func ConfigFrom(cmd *cli.Command) (*Config, error) {
	v, ok := cmd.Root().Metadata["config"]
	if !ok {
		return nil, fmt.Errorf("config not found in command metadata")
	}
	cfg, ok := v.(*Config)
	if !ok {
		return nil, fmt.Errorf("config has unexpected type %T", v)
	}
	return cfg, nil
}
