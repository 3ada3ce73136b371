// Package config holds the app-wide settings, unmarshalled from viper
// (flags, ORFMARK_* environment, orfmark.yaml; see internal/cli).
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"orfmark/core/gcode"
	"orfmark/core/orf"
	"orfmark/core/seq"
	"orfmark/internal/writers"
)

// EnvPrefix prefixes every environment override, e.g. ORFMARK_MIN_LENGTH.
const EnvPrefix = "ORFMARK"

// ConfigName is the config file looked up in the working directory.
const ConfigName = "orfmark"

// Settings is the root-level settings struct. Keys match the CLI flags.
type Settings struct {
	// search
	Strand        string `mapstructure:"strand"`
	MinLength     int    `mapstructure:"min-length"`
	MaxLength     int    `mapstructure:"max-length"`
	RequireInit   bool   `mapstructure:"require-init"`
	AltInit       bool   `mapstructure:"alt-init"`
	RequireStop   bool   `mapstructure:"require-stop"`
	AllowOverlaps bool   `mapstructure:"allow-overlaps"`
	IncludeStop   bool   `mapstructure:"include-stop"`
	MaxResults    int    `mapstructure:"max-results"`
	Region        string `mapstructure:"region"` // 1-based inclusive "START-END"

	// genetic code
	Table     int    `mapstructure:"table"`
	TableFile string `mapstructure:"table-file"`

	// annotation and output
	Name    string `mapstructure:"name"`
	Output  string `mapstructure:"output"`
	OutFile string `mapstructure:"out-file"`
	Header  bool   `mapstructure:"header"`
	Sort    bool   `mapstructure:"sort"`

	// persistence
	DB string `mapstructure:"db"`

	S3URI       string `mapstructure:"s3-uri"`
	S3Region    string `mapstructure:"s3-region"`
	S3Endpoint  string `mapstructure:"s3-endpoint"`
	S3PathStyle bool   `mapstructure:"s3-path-style"`
	S3AccessKey string `mapstructure:"s3-access-key-id"`
	S3SecretKey string `mapstructure:"s3-secret-access-key"`

	// run
	Threads         int  `mapstructure:"threads"`
	Quiet           bool `mapstructure:"quiet"`
	Verbose         bool `mapstructure:"verbose"`
	NoMatchExitCode int  `mapstructure:"no-match-exit-code"`
}

// Default returns the documented defaults.
func Default() Settings {
	d := orf.DefaultSettings()
	return Settings{
		Strand:      d.Strand.String(),
		MinLength:   d.MinLength,
		RequireInit: d.RequireInitCodon,
		IncludeStop: d.IncludeStop,
		Table:       1,
		Name:        "ORF",
		Output:      writers.FormatText,
		Header:      true,
		Sort:        true,
	}
}

// SetDefaults registers Default() with v so config files and env vars
// can override keys that have no flag.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("strand", d.Strand)
	v.SetDefault("min-length", d.MinLength)
	v.SetDefault("max-length", d.MaxLength)
	v.SetDefault("require-init", d.RequireInit)
	v.SetDefault("alt-init", d.AltInit)
	v.SetDefault("require-stop", d.RequireStop)
	v.SetDefault("allow-overlaps", d.AllowOverlaps)
	v.SetDefault("include-stop", d.IncludeStop)
	v.SetDefault("max-results", d.MaxResults)
	v.SetDefault("region", d.Region)
	v.SetDefault("table", d.Table)
	v.SetDefault("table-file", d.TableFile)
	v.SetDefault("name", d.Name)
	v.SetDefault("output", d.Output)
	v.SetDefault("out-file", d.OutFile)
	v.SetDefault("header", d.Header)
	v.SetDefault("sort", d.Sort)
	v.SetDefault("db", d.DB)
	v.SetDefault("s3-uri", d.S3URI)
	v.SetDefault("s3-region", d.S3Region)
	v.SetDefault("s3-endpoint", d.S3Endpoint)
	v.SetDefault("s3-path-style", d.S3PathStyle)
	v.SetDefault("s3-access-key-id", d.S3AccessKey)
	v.SetDefault("s3-secret-access-key", d.S3SecretKey)
	v.SetDefault("threads", d.Threads)
	v.SetDefault("quiet", d.Quiet)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("no-match-exit-code", d.NoMatchExitCode)
}

// Load reads the config file (file, or ./orfmark.yaml when file is empty
// and present), applies env overrides and decodes into Settings.
func Load(v *viper.Viper, file string) (Settings, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &nf) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unable to decode config: %w", err)
	}
	return s, s.Validate()
}

// Validate checks the settings that do not need the engine.
func (s Settings) Validate() error {
	if !writers.Supported(s.Output) {
		return fmt.Errorf("unsupported output %q (want one of %s)", s.Output, strings.Join(writers.Formats(), ", "))
	}
	if s.Output == writers.FormatParquet && s.OutFile == "" {
		return errors.New("--output parquet needs --out-file")
	}
	if s.S3URI != "" && s.OutFile == "" {
		return errors.New("--s3-uri needs --out-file")
	}
	if s.Threads < 0 {
		return fmt.Errorf("--threads must be >= 0, got %d", s.Threads)
	}
	if s.Quiet && s.Verbose {
		return errors.New("--quiet and --verbose are mutually exclusive")
	}
	if s.TableFile == "" && s.Table <= 0 {
		return fmt.Errorf("--table must be > 0, got %d", s.Table)
	}
	if _, err := s.Search(); err != nil {
		return err
	}
	return nil
}

// Recorded is s without credentials, the form stored with a run.
func (s Settings) Recorded() Settings {
	s.S3AccessKey, s.S3SecretKey = "", ""
	return s
}

// Search converts s into engine settings.
func (s Settings) Search() (orf.Settings, error) {
	strand, err := seq.ParseStrandSelection(s.Strand)
	if err != nil {
		return orf.Settings{}, err
	}
	region, err := ParseRegion(s.Region)
	if err != nil {
		return orf.Settings{}, err
	}
	set := orf.Settings{
		Strand:           strand,
		MinLength:        s.MinLength,
		MaxLength:        s.MaxLength,
		RequireInitCodon: s.RequireInit,
		RequireStopCodon: s.RequireStop,
		AllowAltInit:     s.AltInit,
		AllowOverlaps:    s.AllowOverlaps,
		IncludeStop:      s.IncludeStop,
		MaxResults:       s.MaxResults,
		Region:           region,
	}
	return set, set.Validate()
}

// GeneticCode resolves the table: TableFile wins over the numeric id.
func (s Settings) GeneticCode() (*gcode.Table, error) {
	if s.TableFile != "" {
		return gcode.LoadYAMLFile(s.TableFile)
	}
	return gcode.Lookup(s.Table)
}

// ParseRegion parses a 1-based inclusive "START-END" range into a
// half-open 0-based Region. The empty string is the whole sequence.
func ParseRegion(s string) (seq.Region, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return seq.Region{}, nil
	}
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		a, b, ok = strings.Cut(s, "..")
	}
	if !ok {
		return seq.Region{}, fmt.Errorf("bad --region %q (want START-END)", s)
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(a))
	end, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil {
		return seq.Region{}, fmt.Errorf("bad --region %q (want START-END)", s)
	}
	if start < 1 || end < start {
		return seq.Region{}, fmt.Errorf("bad --region %q: need 1 <= START <= END", s)
	}
	return seq.Region{Start: start - 1, End: end}, nil
}
