package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/agaraleas/ConcordanceChallenge/pkg/boot"
)

// FileName is the optional config file looked up in the base directory.
const FileName = "boot.toml"

// Config describes all configuration options
type Config struct {
	Output string `default:"out/build" toml:"output" env:"OUTPUT" usage:"Build directory relative to the project root"`
	Cmake  struct {
		Binary    string   `default:"cmake" toml:"binary" env:"BINARY" usage:"cmake executable"`
		Generator string   `toml:"generator" env:"GENERATOR" usage:"Generator passed to cmake -G"`
		Defines   []string `toml:"defines" env:"DEFINES" usage:"Cache entries passed to cmake -D (NAME=VALUE); BOOT_CMAKE_DEFINES is split on commas, use boot.toml for values containing commas"`
	} `toml:"cmake" env:"CMAKE"`
	Log struct {
		Level string `default:"warn" toml:"level" env:"LEVEL"`
		JSON  bool   `default:"false" toml:"json" env:"JSON" usage:"Output JSON lines instead of console messages"`
	} `toml:"log" env:"LOG"`
	Debug bool `default:"false" toml:"debug" env:"DEBUG" usage:"Include stack traces and all event fields in log output"`
}

var logLevels = map[string]zerolog.Level{
	"trace":   zerolog.TraceLevel,
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object. boot.toml
// is only read if it exists in base.
func Loader(base string) (*Config, *aconfig.Loader) {
	files := []string{}
	if base != "" {
		cfgPath := filepath.Join(base, FileName)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			files = append(files, cfgPath)
		}
	}

	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		// unrelated BOOT_* variables (e.g. BOOT_IMAGE from the kernel) must not break a run
		EnvPrefix:        "BOOT",
		AllowUnknownEnvs: true,
		SkipFlags:        true,
		Files:            files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load reads the configuration for the project rooted at base and validates it.
func Load(base string) (*Config, error) {
	cfg, loader := Loader(base)
	err := loader.Load()
	if err != nil {
		return nil, eris.Wrap(err, "Failed to load configuration")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	err := boot.ValidateOutput(cfg.Output)
	if err != nil {
		return eris.Wrap(err, "Invalid value for output")
	}

	if strings.TrimSpace(cfg.Cmake.Binary) == "" {
		return eris.New("Invalid value for cmake.binary: must not be empty")
	}

	for _, def := range cfg.Cmake.Defines {
		pos := strings.Index(def, "=")
		if pos < 1 {
			return eris.Errorf("Invalid value for cmake.defines: %s is not of the form NAME=VALUE", def)
		}
	}

	_, ok := logLevels[strings.ToLower(cfg.Log.Level)]
	if !ok {
		return eris.Errorf("Invalid value for log.level: %s", cfg.Log.Level)
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	level, ok := logLevels[strings.ToLower(cfg.Log.Level)]
	if !ok {
		return zerolog.WarnLevel
	}

	return level
}

// Configurator returns a boot.Configurator for the configured cmake settings.
func (cfg *Config) Configurator() *boot.Configurator {
	return &boot.Configurator{
		Binary:    cfg.Cmake.Binary,
		Generator: cfg.Cmake.Generator,
		Defines:   append([]string(nil), cfg.Cmake.Defines...),
	}
}
