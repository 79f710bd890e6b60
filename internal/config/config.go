package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonfmt/internal/errors"
	"github.com/mcncl/jsonfmt/internal/models"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "JSONFMT"

// Config represents the complete configuration for jsonfmt
type Config struct {
	Indent   IndentSetting `yaml:"indent"`
	SortKeys bool          `yaml:"sort_keys"`
	Minify   bool          `yaml:"minify"`
	MaxDepth int           `yaml:"max_depth"`
	Output   OutputConfig  `yaml:"output"`
	Files    []FileRule    `yaml:"files"`
	Dev      DevConfig     `yaml:"dev"`
}

// IndentSetting is an indent as written in YAML: a number of spaces or "tab"
type IndentSetting struct {
	models.Indent
}

// UnmarshalYAML accepts an integer or the string "tab"
func (i *IndentSetting) UnmarshalYAML(node *yaml.Node) error {
	indent, err := ParseIndent(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	i.Indent = indent
	return nil
}

// MarshalYAML writes the indent back as a number or "tab"
func (i IndentSetting) MarshalYAML() (interface{}, error) {
	if i.IsTab() {
		return "tab", nil
	}
	return len(i.Unit()), nil
}

// ColorMode controls when output is coloured
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Enabled resolves the mode against whether the destination is a terminal
func (m ColorMode) Enabled(isTerminal bool) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

// Validate rejects unknown modes
func (m ColorMode) Validate() error {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return fmt.Errorf("invalid color mode %q: want auto, always or never", string(m))
	}
}

// OutputConfig controls how results are written
type OutputConfig struct {
	Color           ColorMode `yaml:"color"`
	TrailingNewline bool      `yaml:"trailing_newline"`
	ContextLines    int       `yaml:"context_lines"`
}

// FileRule overrides formatting for input files whose path matches Pattern
type FileRule struct {
	Pattern  string         `yaml:"pattern"`
	Indent   *IndentSetting `yaml:"indent,omitempty"`
	SortKeys *bool          `yaml:"sort_keys,omitempty"`
	Minify   *bool          `yaml:"minify,omitempty"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Indent:   IndentSetting{models.DefaultIndent()},
		SortKeys: false,
		Minify:   false,
		MaxDepth: models.DefaultMaxDepth,
		Output: OutputConfig{
			Color:           ColorAuto,
			TrailingNewline: true,
			ContextLines:    2,
		},
		Files: []FileRule{},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// ParseIndent reads an indent from flag or config text: "tab", a literal tab
// character, or a positive number of spaces.
func ParseIndent(s string) (models.Indent, error) {
	if s == "\t" || strings.EqualFold(strings.TrimSpace(s), "tab") {
		return models.Tab(), nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return models.Indent{}, fmt.Errorf("%w, got %q", errors.ErrInvalidIndent, s)
	}
	return models.Spaces(n), nil
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.compilePatterns(); err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	return cfg, nil
}

// Validate checks values that YAML decoding alone cannot
func (c *Config) Validate() error {
	if err := c.Output.Color.Validate(); err != nil {
		return err
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Output.ContextLines < 0 {
		return fmt.Errorf("output.context_lines must not be negative, got %d", c.Output.ContextLines)
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return FindConfigFileFrom(currentDir)
}

// FindConfigFileFrom searches dir and its parents for a config file
func FindConfigFileFrom(dir string) string {
	configNames := []string{".jsonfmt.yml", ".jsonfmt.yaml", "jsonfmt.yml", "jsonfmt.yaml"}

	currentDir := dir
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	for i := range c.Files {
		rule := &c.Files[i]
		regex, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid file pattern '%s': %w", rule.Pattern, err)
		}
		rule.regex = regex
	}
	return nil
}

// MatchesPath checks if this rule applies to the given input path
func (r *FileRule) MatchesPath(path string) bool {
	if r.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(r.Pattern)
		if err != nil {
			return false
		}
		r.regex = regex
	}
	return r.regex.MatchString(filepath.ToSlash(path))
}

// ForPath returns a copy of the config with every matching file rule applied
// in order. An empty path matches nothing.
func (c *Config) ForPath(path string) *Config {
	resolved := *c
	if path == "" {
		return &resolved
	}
	for i := range c.Files {
		rule := &c.Files[i]
		if !rule.MatchesPath(path) {
			continue
		}
		if rule.Indent != nil {
			resolved.Indent = *rule.Indent
		}
		if rule.SortKeys != nil {
			resolved.SortKeys = *rule.SortKeys
		}
		if rule.Minify != nil {
			resolved.Minify = *rule.Minify
		}
	}
	return &resolved
}

// envSetter applies one environment value to the config
type envSetter func(c *Config, value string) error

// envKeys maps yaml key paths to their setters. Env names are derived from
// the paths, e.g. output.color -> JSONFMT_OUTPUT_COLOR.
var envKeys = map[string]envSetter{
	"indent": func(c *Config, v string) error {
		indent, err := ParseIndent(v)
		if err != nil {
			return err
		}
		c.Indent = IndentSetting{indent}
		return nil
	},
	"sort_keys": boolSetter(func(c *Config) *bool { return &c.SortKeys }),
	"minify":    boolSetter(func(c *Config) *bool { return &c.Minify }),
	"max_depth": intSetter("max depth", func(c *Config) *int { return &c.MaxDepth }),
	"output.color": func(c *Config, v string) error {
		mode := ColorMode(strings.ToLower(v))
		if err := mode.Validate(); err != nil {
			return err
		}
		c.Output.Color = mode
		return nil
	},
	"output.trailing_newline": boolSetter(func(c *Config) *bool { return &c.Output.TrailingNewline }),
	"output.context_lines":    intSetter("context lines", func(c *Config) *int { return &c.Output.ContextLines }),
	"dev.debug":               boolSetter(func(c *Config) *bool { return &c.Dev.Debug }),
}

// intSetter accepts a non-negative integer
func intSetter(what string, field func(c *Config) *int) envSetter {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s %q", what, v)
		}
		*field(c) = n
		return nil
	}
}

func boolSetter(field func(c *Config) *bool) envSetter {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", v)
		}
		*field(c) = b
		return nil
	}
}

// EnvName returns the environment variable that overrides a yaml key path
func EnvName(keyPath string) string {
	return EnvPrefix + "_" + strcase.ToScreamingSnake(strings.ReplaceAll(keyPath, ".", "_"))
}

// EnvNames lists every supported environment override, sorted
func EnvNames() []string {
	names := lo.Map(lo.Keys(envKeys), func(key string, _ int) string {
		return EnvName(key)
	})
	slices.Sort(names)
	return names
}

// ApplyEnv overrides config values from environment variables. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for key, set := range envKeys {
		name := EnvName(key)
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}
		if err := set(c, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Overrides holds values given on the command line. Zero values mean "not
// set"; boolean flags can only switch a setting on.
type Overrides struct {
	Indent   string
	SortKeys bool
	Minify   bool
	MaxDepth int
	Color    string
	Debug    bool
}

// Apply merges CLI overrides into the config
func (c *Config) Apply(o Overrides) error {
	if o.Indent != "" {
		indent, err := ParseIndent(o.Indent)
		if err != nil {
			return err
		}
		c.Indent = IndentSetting{indent}
	}
	if o.SortKeys {
		c.SortKeys = true
	}
	if o.Minify {
		c.Minify = true
	}
	if o.MaxDepth > 0 {
		c.MaxDepth = o.MaxDepth
	}
	if o.Color != "" {
		mode := ColorMode(strings.ToLower(o.Color))
		if err := mode.Validate(); err != nil {
			return err
		}
		c.Output.Color = mode
	}
	if o.Debug {
		c.Dev.Debug = true
	}
	return nil
}

// Load resolves the effective config for one input: defaults, then the
// config file (the given path, or one found from the working directory),
// then file rules matching inputPath, then environment variables, then CLI
// overrides. It returns the config file it read, if any.
func Load(configPath, inputPath string, lookup func(string) (string, bool), o Overrides) (*Config, string, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, configPath, err
		}
		cfg = fileConfig.ForPath(inputPath)
	}

	if lookup != nil {
		if err := cfg.ApplyEnv(lookup); err != nil {
			return nil, configPath, err
		}
	}

	if err := cfg.Apply(o); err != nil {
		return nil, configPath, err
	}

	return cfg, configPath, nil
}
