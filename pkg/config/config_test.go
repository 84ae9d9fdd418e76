package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "out/build", cfg.Output)
	assert.Equal(t, "cmake", cfg.Cmake.Binary)
	assert.Empty(t, cfg.Cmake.Generator)
	assert.Empty(t, cfg.Cmake.Defines)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel())
	assert.False(t, cfg.Log.JSON)
	assert.False(t, cfg.Debug)
}

func TestConfigFile(t *testing.T) {
	base := t.TempDir()
	content := `output = "build/debug"

[cmake]
binary = "/opt/cmake/bin/cmake"
generator = "Ninja"
defines = ["CMAKE_BUILD_TYPE=Debug"]

[log]
level = "info"
`
	require.NoError(t, os.WriteFile(filepath.Join(base, FileName), []byte(content), 0o644))

	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, "build/debug", cfg.Output)
	assert.Equal(t, "/opt/cmake/bin/cmake", cfg.Cmake.Binary)
	assert.Equal(t, "Ninja", cfg.Cmake.Generator)
	assert.Equal(t, []string{"CMAKE_BUILD_TYPE=Debug"}, cfg.Cmake.Defines)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BOOT_OUTPUT", "build/release")
	t.Setenv("BOOT_CMAKE_GENERATOR", "Unix Makefiles")
	t.Setenv("BOOT_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "build/release", cfg.Output)
	assert.Equal(t, "Unix Makefiles", cfg.Cmake.Generator)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
}

func TestUnrelatedPrefixedEnv(t *testing.T) {
	t.Setenv("BOOT_IMAGE", "/vmlinuz-6.1")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "out/build", cfg.Output)
	assert.Equal(t, "cmake", cfg.Cmake.Binary)
}

func TestDefinesFromEnvSplitOnCommas(t *testing.T) {
	t.Setenv("BOOT_CMAKE_DEFINES", "CMAKE_BUILD_TYPE=Release,ENABLE_TESTS=ON")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"CMAKE_BUILD_TYPE=Release", "ENABLE_TESTS=ON"}, cfg.Cmake.Defines)
}

func TestInvalidFile(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, FileName), []byte(`output = "/tmp/build"`), 0o644))

	_, err := Load(base)
	assert.Error(t, err)
}

func validConfig() *Config {
	cfg := &Config{Output: "out/build"}
	cfg.Cmake.Binary = "cmake"
	cfg.Log.Level = "warn"
	return cfg
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := map[string]func(cfg *Config){
		"absolute output": func(cfg *Config) { cfg.Output = "/tmp/build" },
		"escaping output": func(cfg *Config) { cfg.Output = "../build" },
		"empty binary":    func(cfg *Config) { cfg.Cmake.Binary = " " },
		"bad define":      func(cfg *Config) { cfg.Cmake.Defines = []string{"NOVALUE"} },
		"unnamed define":  func(cfg *Config) { cfg.Cmake.Defines = []string{"=1"} },
		"bad level":       func(cfg *Config) { cfg.Log.Level = "loud" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigurator(t *testing.T) {
	cfg := validConfig()
	cfg.Cmake.Generator = "Ninja"
	cfg.Cmake.Defines = []string{"A=1"}

	c := cfg.Configurator()
	assert.Equal(t, "cmake", c.Binary)
	assert.Equal(t, "Ninja", c.Generator)
	assert.Equal(t, []string{"A=1"}, c.Defines)

	c.Defines[0] = "B=2"
	assert.Equal(t, []string{"A=1"}, cfg.Cmake.Defines)
}
