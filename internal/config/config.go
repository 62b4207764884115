// YAML config loader with CUE validation integration
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"aegis-net/internal/geo"
	"aegis-net/internal/neo"
	"aegis-net/internal/physics"
	"aegis-net/internal/resources"
)

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AlertHistory   int      `yaml:"alert_history"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Exporter    string  `yaml:"exporter"`
	Endpoint    string  `yaml:"endpoint"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// GreptimeConfig enables the GreptimeDB sink when Endpoint is set.
type GreptimeConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Port            int    `yaml:"port"`
	Database        string `yaml:"database"`
	ImpactTable     string `yaml:"impact_table"`
	DeflectionTable string `yaml:"deflection_table"`
}

// Range is an inclusive arithmetic sequence. A zero Step yields only Min.
type Range struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// MaxRangeValues bounds the expansion of a single Range.
const MaxRangeValues = 10000

// ErrRangeTooLarge is returned when a Range would exceed MaxRangeValues.
var ErrRangeTooLarge = errors.New("range expands to too many values")

// Values expands the range.
func (r Range) Values() ([]float64, error) {
	if r.Step <= 0 || r.Max <= r.Min {
		return []float64{r.Min}, nil
	}
	count := math.Floor((r.Max-r.Min)/r.Step+1e-9) + 1
	if math.IsNaN(count) || count > MaxRangeValues {
		return nil, fmt.Errorf("%w: %v values, max %d", ErrRangeTooLarge, count, MaxRangeValues)
	}
	out := make([]float64, int(count))
	for i := range out {
		out[i] = r.Min + float64(i)*r.Step
	}
	return out, nil
}

// SweepConfig describes the parameter grid run by the sweep command.
type SweepConfig struct {
	Sizes         Range                 `yaml:"sizes"`
	Velocities    Range                 `yaml:"velocities"`
	Angle         float64               `yaml:"angle"`
	Compositions  []physics.Composition `yaml:"compositions"`
	Strategies    []physics.StrategyID  `yaml:"strategies"`
	LeadTimesDays []float64             `yaml:"lead_times_days"`
	Interval      time.Duration         `yaml:"interval"`
}

type PredictionConfig struct {
	DefaultDensity float64     `yaml:"default_density"`
	GridSize       int         `yaml:"grid_size"`
	SafeZones      []geo.Point `yaml:"safe_zones"`
	CoastalZones   []geo.Box   `yaml:"coastal_zones"`
	// DefaultTarget names the catalogue object predicted by GET requests.
	DefaultTarget string `yaml:"default_target"`
}

type TLEConfig struct {
	Name  string `yaml:"name"`
	Line1 string `yaml:"line1"`
	Line2 string `yaml:"line2"`
}

// Config is the root configuration.
type Config struct {
	Server     ServerConfig         `yaml:"server"`
	Logging    LoggingConfig        `yaml:"logging"`
	Tracing    TracingConfig        `yaml:"tracing"`
	Greptime   GreptimeConfig       `yaml:"greptime"`
	Sweep      SweepConfig          `yaml:"sweep"`
	Prediction PredictionConfig     `yaml:"prediction"`
	Resources  []resources.Resource `yaml:"resources"`
	Asteroids  []neo.Object         `yaml:"asteroids"`
	NEOSSat    TLEConfig            `yaml:"neossat"`
}

// Load loads YAML config, validates it against a CUE schema, fills defaults
// and applies environment overrides.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML without schema validation.
func Parse(data []byte) (*Config, error) {
	cfg := preset()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Sweep.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s SweepConfig) validate() error {
	if _, err := s.Sizes.Values(); err != nil {
		return fmt.Errorf("sweep.sizes: %w", err)
	}
	if _, err := s.Velocities.Values(); err != nil {
		return fmt.Errorf("sweep.velocities: %w", err)
	}
	return nil
}

// preset holds defaults for fields whose zero value is valid. They are set
// before decoding so only an absent key falls back to them.
func preset() Config {
	var c Config
	c.Sweep.Angle = 45
	return c
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.AlertHistory == 0 {
		c.Server.AlertHistory = 100
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "aegis-net"
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = "stdout"
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}
	if c.Greptime.Port == 0 {
		c.Greptime.Port = 4001
	}
	if c.Greptime.Database == "" {
		c.Greptime.Database = "public"
	}
	if len(c.Sweep.Compositions) == 0 {
		c.Sweep.Compositions = []physics.Composition{physics.Stone}
	}
	if len(c.Sweep.LeadTimesDays) == 0 {
		c.Sweep.LeadTimesDays = []float64{365}
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("AEGIS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GREPTIMEDB_ENDPOINT"); v != "" {
		c.Greptime.Endpoint = v
	}
	if v := os.Getenv("GREPTIMEDB_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GREPTIMEDB_PORT: %w", err)
		}
		c.Greptime.Port = p
	}
	if v := os.Getenv("GREPTIMEDB_DATABASE"); v != "" {
		c.Greptime.Database = v
	}
	if v := os.Getenv("IMPACT_TABLE"); v != "" {
		c.Greptime.ImpactTable = v
	}
	if v := os.Getenv("DEFLECTION_TABLE"); v != "" {
		c.Greptime.DeflectionTable = v
	}
	if v := os.Getenv("TRACING_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRACING_ENABLED: %w", err)
		}
		c.Tracing.Enabled = b
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		c.Tracing.Endpoint = v
	}
	return nil
}
