// Package config loads and validates the listkit configuration file.
//
// The file declares the request parameter contract (parameter names and the
// sort separator), pagination bounds, the sortable attribute whitelist, and
// presentation settings such as locale and logging. A version field ties the
// file to a config schema; files from a different schema major are rejected.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/listkit/listkit/internal/pager"
	"github.com/listkit/listkit/internal/sortspec"
)

// SchemaVersion is the config schema version written by `config init`.
const SchemaVersion = "1.0.0"

// schemaConstraint accepts any config file within the current schema major.
const schemaConstraint = "^1"

// DefaultFileName is the config file looked up in the working directory when
// no --config flag is given.
const DefaultFileName = "listkit.yaml"

// Configuration errors.
var (
	ErrInvalidVersion     = errors.New("invalid config version")
	ErrUnsupportedVersion = errors.New("unsupported config schema version")
	ErrInvalidDirection   = errors.New("direction must be \"asc\" or \"desc\"")
	ErrInvalidLocale      = errors.New("invalid locale")
	ErrInvalidWindow      = errors.New("window must be positive")
)

// Params names the request parameters consumed by the presentation layer.
type Params struct {
	Sort  string `yaml:"sort"`
	Page  string `yaml:"page"`
	Limit string `yaml:"limit"`
}

// ColumnConfig is one physical sort column inside an attribute mapping.
type ColumnConfig struct {
	Column    string `yaml:"column"`
	Direction string `yaml:"direction"`
}

// AttributeConfig declares one sortable attribute. Asc and Desc may both be
// omitted for a simple self-mapped attribute.
type AttributeConfig struct {
	Name    string         `yaml:"name"`
	Label   string         `yaml:"label,omitempty"`
	Default string         `yaml:"default,omitempty"`
	Asc     []ColumnConfig `yaml:"asc,omitempty"`
	Desc    []ColumnConfig `yaml:"desc,omitempty"`
}

// OrderConfig is one entry of the static default sort order.
type OrderConfig struct {
	Attribute string `yaml:"attribute"`
	Direction string `yaml:"direction,omitempty"`
}

// Logging configures the CLI logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the full listkit configuration.
type Config struct {
	Version      string            `yaml:"version"`
	Params       Params            `yaml:"params"`
	Separator    string            `yaml:"separator"`
	MultiSort    bool              `yaml:"multi_sort"`
	DefaultLimit int               `yaml:"default_limit"`
	MaxLimit     int               `yaml:"max_limit"`
	Window       int               `yaml:"window"`
	Locale       string            `yaml:"locale,omitempty"`
	KeyField     string            `yaml:"key_field,omitempty"`
	BasePath     string            `yaml:"base_path"`
	Attributes   []AttributeConfig `yaml:"attributes,omitempty"`
	DefaultOrder []OrderConfig     `yaml:"default_order,omitempty"`
	Logging      Logging           `yaml:"logging"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Version: SchemaVersion,
		Params: Params{
			Sort:  "sort",
			Page:  pager.DefaultPageParam,
			Limit: pager.DefaultLimitParam,
		},
		Separator:    sortspec.DefaultSeparator,
		MultiSort:    true,
		DefaultLimit: pager.DefaultPageLimit,
		MaxLimit:     pager.DefaultMaxLimit,
		Window:       pager.DefaultWindow,
		BasePath:     "/",
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path, unmarshals it over the defaults, and validates the
// result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write marshals the configuration to path.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks version compatibility and the value ranges the calculators
// depend on. Attribute mapping validity is checked by sortspec.New when the
// spec is built.
func (c *Config) Validate() error {
	if err := c.validateVersion(); err != nil {
		return err
	}

	if c.MaxLimit <= 0 {
		return fmt.Errorf("%w: got %d", pager.ErrInvalidMaxLimit, c.MaxLimit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWindow, c.Window)
	}

	for _, attr := range c.Attributes {
		if err := validDirection(attr.Default); err != nil {
			return fmt.Errorf("attribute %q: %w", attr.Name, err)
		}
		for _, col := range append(append([]ColumnConfig{}, attr.Asc...), attr.Desc...) {
			if err := validDirection(col.Direction); err != nil {
				return fmt.Errorf("attribute %q column %q: %w", attr.Name, col.Column, err)
			}
		}
	}
	for _, o := range c.DefaultOrder {
		if err := validDirection(o.Direction); err != nil {
			return fmt.Errorf("default order %q: %w", o.Attribute, err)
		}
	}

	if c.Locale != "" {
		if _, err := language.Parse(c.Locale); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLocale, c.Locale)
		}
	}

	return nil
}

func (c *Config) validateVersion() error {
	version := c.Version
	if version == "" {
		version = SchemaVersion
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}

	constraint, err := semver.NewConstraint(schemaConstraint)
	if err != nil {
		return fmt.Errorf("failed to parse schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedVersion, version, schemaConstraint)
	}

	return nil
}

// validDirection accepts "asc", "desc", or the empty string (meaning the
// downstream default).
func validDirection(dir string) error {
	switch dir {
	case "", string(sortspec.Asc), string(sortspec.Desc):
		return nil
	}
	return fmt.Errorf("%w: got %q", ErrInvalidDirection, dir)
}

// SortOptions converts the configured attributes into sortspec options.
func (c *Config) SortOptions() sortspec.Options {
	opts := sortspec.Options{
		Separator: c.Separator,
		MultiSort: c.MultiSort,
	}

	for _, attr := range c.Attributes {
		opts.Attributes = append(opts.Attributes, sortspec.Attribute{
			Name:    attr.Name,
			Label:   attr.Label,
			Default: sortspec.Direction(attr.Default),
			Asc:     toColumnOrders(attr.Asc),
			Desc:    toColumnOrders(attr.Desc),
		})
	}
	for _, o := range c.DefaultOrder {
		opts.DefaultOrder = append(opts.DefaultOrder, sortspec.Entry{
			Attribute: o.Attribute,
			Direction: sortspec.Direction(o.Direction),
		})
	}

	return opts
}

func toColumnOrders(cols []ColumnConfig) []sortspec.ColumnOrder {
	out := make([]sortspec.ColumnOrder, 0, len(cols))
	for _, col := range cols {
		dir := sortspec.Direction(col.Direction)
		if dir == "" {
			dir = sortspec.Asc
		}
		out = append(out, sortspec.ColumnOrder{Column: col.Column, Direction: dir})
	}
	return out
}

// PagerConfig converts the pagination settings into a calculator config.
func (c *Config) PagerConfig() pager.Config {
	return pager.Config{
		DefaultLimit: c.DefaultLimit,
		MaxLimit:     c.MaxLimit,
		Window:       c.Window,
		PageParam:    c.Params.Page,
		LimitParam:   c.Params.Limit,
	}
}
