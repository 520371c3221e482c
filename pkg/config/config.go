// Package config loads the YAML run configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/conet/pkg/graph"
	"github.com/dd0wney/conet/pkg/validation"
)

// Config is the full run configuration.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Viz    VizConfig    `yaml:"viz"`
	Build  BuildConfig  `yaml:"build"`
	Query  QueryConfig  `yaml:"query"`
	Log    LogConfig    `yaml:"log"`
}

// InputConfig locates the presence table and the entity catalog. Either may
// be a local path or an s3://bucket/key URI.
type InputConfig struct {
	Data    string   `yaml:"data" validate:"required"`
	Catalog string   `yaml:"catalog" validate:"required"`
	S3      S3Config `yaml:"s3"`
}

// S3Config configures access for s3:// inputs. Empty fields fall back to the
// default AWS credential chain and region.
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// OutputConfig names the report files. Relative names resolve under Base.
// Empty names take the default; the name "-" disables that output.
type OutputConfig struct {
	Base             string         `yaml:"base"`
	Patterns         string         `yaml:"patterns"`
	DiseaseType      string         `yaml:"disease_type"`
	TemporalDynamics DynamicsOutput `yaml:"temporal_dynamics"`
	MGEGroup         string         `yaml:"mge_group"`
	Statistics       string         `yaml:"statistics"`
	Metrics          string         `yaml:"metrics"`
}

// DynamicsOutput names one CSV per dynamics class.
type DynamicsOutput struct {
	Emerge    string `yaml:"emerge"`
	Disappear string `yaml:"disappear"`
	Transfer  string `yaml:"transfer"`
	Persist   string `yaml:"persist"`
}

// VizConfig names the graph exports. A ".sz" suffix compresses the file and
// "-" disables it.
type VizConfig struct {
	InteractionJSON string `yaml:"interaction_json"`
	ParentJSON      string `yaml:"parent_json"`
	DOT             string `yaml:"dot"`
	Layout          string `yaml:"layout" validate:"omitempty,oneof=circular force hierarchical none"`
	MaxNodes        int    `yaml:"max_nodes" validate:"gte=0"`
	MaxEdges        int    `yaml:"max_edges" validate:"gte=0"`
}

// BuildConfig controls graph construction.
type BuildConfig struct {
	ExcludeSNPConfirmed bool   `yaml:"exclude_snp_confirmed"`
	ExcludeNonDrug      bool   `yaml:"exclude_non_drug"`
	TemporalStrategy    string `yaml:"temporal_strategy" validate:"omitempty,oneof=adjacent all_pairs"`
}

// QueryConfig controls rankings. TopN 0 ranks everything.
type QueryConfig struct {
	TopN int `yaml:"top_n" validate:"gte=0"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when a field is left empty.
func Default() Config {
	return Config{
		Output: OutputConfig{
			Base:        "output",
			Patterns:    "patterns.csv",
			DiseaseType: "disease_type.csv",
			TemporalDynamics: DynamicsOutput{
				Emerge:    "emerge.csv",
				Disappear: "disappear.csv",
				Transfer:  "transfer.csv",
				Persist:   "persist.csv",
			},
			MGEGroup:   "mge_group.csv",
			Statistics: "graph_statistics.csv",
			Metrics:    "conet.prom",
		},
		Viz: VizConfig{
			InteractionJSON: "interaction_graph.json",
			ParentJSON:      "parent_graph.json",
			DOT:             "graph_output.dot",
			Layout:          "circular",
			MaxNodes:        700,
			MaxEdges:        11000,
		},
		Build: BuildConfig{TemporalStrategy: "adjacent"},
		Query: QueryConfig{TopN: 10},
		Log:   LogConfig{Level: "info"},
	}
}

// ApplyDefaults fills zero-valued fields from Default. Boolean switches and
// TopN keep their zero values, which are meaningful.
func (c *Config) ApplyDefaults() {
	d := Default()

	c.Output.Base = validation.DefaultOr(c.Output.Base, d.Output.Base)
	c.Output.Patterns = validation.DefaultOr(c.Output.Patterns, d.Output.Patterns)
	c.Output.DiseaseType = validation.DefaultOr(c.Output.DiseaseType, d.Output.DiseaseType)
	c.Output.TemporalDynamics.Emerge = validation.DefaultOr(c.Output.TemporalDynamics.Emerge, d.Output.TemporalDynamics.Emerge)
	c.Output.TemporalDynamics.Disappear = validation.DefaultOr(c.Output.TemporalDynamics.Disappear, d.Output.TemporalDynamics.Disappear)
	c.Output.TemporalDynamics.Transfer = validation.DefaultOr(c.Output.TemporalDynamics.Transfer, d.Output.TemporalDynamics.Transfer)
	c.Output.TemporalDynamics.Persist = validation.DefaultOr(c.Output.TemporalDynamics.Persist, d.Output.TemporalDynamics.Persist)
	c.Output.MGEGroup = validation.DefaultOr(c.Output.MGEGroup, d.Output.MGEGroup)
	c.Output.Statistics = validation.DefaultOr(c.Output.Statistics, d.Output.Statistics)
	c.Output.Metrics = validation.DefaultOr(c.Output.Metrics, d.Output.Metrics)

	c.Viz.InteractionJSON = validation.DefaultOr(c.Viz.InteractionJSON, d.Viz.InteractionJSON)
	c.Viz.ParentJSON = validation.DefaultOr(c.Viz.ParentJSON, d.Viz.ParentJSON)
	c.Viz.DOT = validation.DefaultOr(c.Viz.DOT, d.Viz.DOT)
	c.Viz.Layout = validation.DefaultOr(c.Viz.Layout, d.Viz.Layout)
	c.Viz.MaxNodes = validation.DefaultOrInt(c.Viz.MaxNodes, d.Viz.MaxNodes)
	c.Viz.MaxEdges = validation.DefaultOrInt(c.Viz.MaxEdges, d.Viz.MaxEdges)

	c.Build.TemporalStrategy = validation.DefaultOr(c.Build.TemporalStrategy, d.Build.TemporalStrategy)
	c.Log.Level = validation.DefaultOr(c.Log.Level, d.Log.Level)
}

// Validate checks struct tags, then cross-field rules.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	v := validation.NewConfigValidator("config")
	v.Source("input.data", c.Input.Data).
		Source("input.catalog", c.Input.Catalog).
		NonNegative("query.top_n", c.Query.TopN).
		OneOf("log.level", c.Log.Level, []string{"debug", "info", "warn", "error"})

	v.When(c.Input.S3.AccessKeyID != "", func(cv *validation.ConfigValidator) {
		cv.Required("input.s3.secret_access_key", c.Input.S3.SecretAccessKey)
	})
	v.Custom("build.temporal_strategy", func() error {
		_, err := graph.ParseTemporalStrategy(c.Build.TemporalStrategy)
		return err
	})

	return v.Validate()
}

// UsesS3 reports whether any input lives in S3.
func (c *Config) UsesS3() bool {
	return strings.HasPrefix(c.Input.Data, "s3://") || strings.HasPrefix(c.Input.Catalog, "s3://")
}

// Disabled is the output name that turns an output off.
const Disabled = "-"

// OutputPath resolves a configured output name against Output.Base.
// Disabled and empty names give ""; absolute names are returned unchanged.
func (c *Config) OutputPath(name string) string {
	switch {
	case name == "" || name == Disabled:
		return ""
	case filepath.IsAbs(name):
		return name
	}
	return filepath.Join(c.Output.Base, name)
}

// TemporalStrategy returns the parsed build strategy.
func (c *Config) TemporalStrategy() graph.TemporalStrategy {
	s, err := graph.ParseTemporalStrategy(c.Build.TemporalStrategy)
	if err != nil {
		return graph.TemporalAdjacent
	}
	return s
}

// BuildOptions returns the builder options.
func (c *Config) BuildOptions() graph.BuildOptions {
	return graph.BuildOptions{
		ExcludeSNPConfirmed: c.Build.ExcludeSNPConfirmed,
		ExcludeNonDrugARGs:  c.Build.ExcludeNonDrug,
	}
}

// Decode reads YAML and applies defaults without validating, so callers
// can apply overrides first. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.ApplyDefaults()
	return &c, nil
}

// Parse decodes YAML, applies defaults and validates.
func Parse(r io.Reader) (*Config, error) {
	c, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Overrides replace configured values, usually from command-line flags.
// Empty fields keep the configured value.
type Overrides struct {
	Data       string
	Catalog    string
	OutputBase string
	LogLevel   string
}

func (o Overrides) apply(c *Config) {
	c.Input.Data = validation.DefaultOr(o.Data, c.Input.Data)
	c.Input.Catalog = validation.DefaultOr(o.Catalog, c.Input.Catalog)
	c.Output.Base = validation.DefaultOr(o.OutputBase, c.Output.Base)
	c.Log.Level = validation.DefaultOr(o.LogLevel, c.Log.Level)
}

// Resolve reads the file at path, applies o, then validates. A missing file
// falls back to Default unless required is set.
func Resolve(path string, required bool, o Overrides) (*Config, error) {
	var cfg *Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		cfg, err = Decode(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		d := Default()
		cfg = &d
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	o.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
