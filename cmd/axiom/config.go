package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/akshaykmanoj/spry-sub002"
	"github.com/akshaykmanoj/spry-sub002/edge"
	"github.com/akshaykmanoj/spry-sub002/internal/runtime"
	"github.com/akshaykmanoj/spry-sub002/rules"
)

// Config is the optional pipeline configuration file.
type Config struct {
	// Nesting is the pseudo-heading policy: "sibling" (default) or "child".
	Nesting string `yaml:"nesting"`
	// Watched lists the relationships derivation rules react to.
	Watched []string `yaml:"watched"`
	// ClassifyKey overrides the frontmatter key for role selectors.
	ClassifyKey string `yaml:"classify_key"`
	// Selectors classify nodes by CSS selector.
	Selectors []rules.RoleSelector `yaml:"selectors"`
	// ScriptsDir is where script paths and Risor imports resolve. Relative
	// to the config file.
	ScriptsDir string `yaml:"scripts_dir"`
	// Scripts classify nodes with Risor predicates.
	Scripts []ScriptConfig `yaml:"scripts"`
	// Trace logs every final edge at debug level.
	Trace bool `yaml:"trace"`

	MaxFileSize int   `yaml:"max_file_size"`
	Workers     int   `yaml:"workers"`
	Decorators  *bool `yaml:"decorators"`

	dir string
}

// ScriptConfig is one Risor classification. Exactly one of Path and Source
// is set; Role or Rel names the edges it produces.
type ScriptConfig struct {
	Role   string `yaml:"role"`
	Rel    string `yaml:"rel"`
	Path   string `yaml:"path"`
	Source string `yaml:"source"`
}

// loadConfig reads path, or returns the zero config when path is empty.
func loadConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

func parseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Nesting {
	case "", "sibling", "child":
	default:
		return fmt.Errorf("nesting %q: must be sibling or child", c.Nesting)
	}
	for i, s := range c.Selectors {
		if s.Selector == "" || s.Role == "" {
			return fmt.Errorf("selectors[%d]: selector and role are required", i)
		}
	}
	for i, s := range c.Scripts {
		if (s.Path == "") == (s.Source == "") {
			return fmt.Errorf("scripts[%d]: exactly one of path and source is required", i)
		}
		if (s.Role == "") == (s.Rel == "") {
			return fmt.Errorf("scripts[%d]: exactly one of role and rel is required", i)
		}
	}
	return nil
}

// pipeline turns the config into the rule pipeline.
func (c *Config) pipeline(logger *slog.Logger) (rules.Pipeline, error) {
	var p rules.Pipeline
	if c.Nesting == "child" {
		p.Section = append(p.Section, rules.WithNesting(rules.Always(rules.NestChild)))
	}
	for _, w := range c.Watched {
		p.Watched = append(p.Watched, edge.Relationship(w))
	}
	p.ClassifyKey = c.ClassifyKey

	for _, s := range c.Selectors {
		r, err := rules.Selected(rules.Role(s.Role), s.Selector)
		if err != nil {
			return p, err
		}
		p.Classify = append(p.Classify, r)
	}

	if len(c.Scripts) > 0 {
		rt := runtime.NewRuntime(c.scriptsDir(), runtime.WithLogger(logger))
		for _, s := range c.Scripts {
			pred := rt.Predicate(s.Source)
			if s.Path != "" {
				var err error
				if pred, err = rt.LoadPredicate(s.Path); err != nil {
					return p, err
				}
			}
			rel := edge.Relationship(s.Rel)
			if s.Role != "" {
				rel = rules.Role(s.Role)
			}
			p.Classify = append(p.Classify, pred.Rule(rel))
		}
	}

	if c.Trace {
		p.Extra = append(p.Extra, rules.Trace(logger))
	}
	return p, nil
}

func (c *Config) scriptsDir() string {
	switch {
	case c.ScriptsDir == "":
		return c.dir
	case filepath.IsAbs(c.ScriptsDir):
		return c.ScriptsDir
	default:
		return filepath.Join(c.dir, c.ScriptsDir)
	}
}

// newEngine builds an engine from the --config file and --verbose flag.
func newEngine() (*axiom.Engine, error) {
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return nil, err
	}
	logger := newLogger()
	p, err := cfg.pipeline(logger)
	if err != nil {
		return nil, err
	}
	opts := []axiom.Option{
		axiom.WithRules(p.Rules()...),
		axiom.WithLogger(logger),
	}
	if cfg.MaxFileSize > 0 {
		opts = append(opts, axiom.WithMaxFileSize(cfg.MaxFileSize))
	}
	if cfg.Workers > 0 {
		opts = append(opts, axiom.WithWorkers(cfg.Workers))
	}
	if cfg.Decorators != nil {
		opts = append(opts, axiom.WithDecorators(*cfg.Decorators))
	}
	return axiom.New(opts...), nil
}
