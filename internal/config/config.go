// Package config loads the optional HCL file that tunes the bridge:
//
//	log_level = "info"
//
//	kernel {
//	  force_generic = false
//	}
//
//	arena {
//	  max_live_bytes = 0
//	}
//
// Every attribute and block is optional; omitted values keep their defaults.
// Expressions may read the process environment as env.NAME, e.g.
// log_level = env.ALGOBRIDGE_LOG_LEVEL.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-bridge/internal/arena"
	"github.com/cwbudde/algo-bridge/internal/cpu"
	"github.com/cwbudde/algo-bridge/kernel"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPath names the environment variable the C library reads the config
// path from.
const EnvPath = "ALGOBRIDGE_CONFIG"

var ErrInvalid = errors.New("config: invalid")

// Config is the decoded configuration.
type Config struct {
	LogLevel string
	Kernel   Kernel
	Arena    Arena
}

// Kernel tunes kernel selection.
type Kernel struct {
	// ForceGeneric selects the scalar path regardless of the CPU.
	ForceGeneric bool
}

// Arena tunes the response arena.
type Arena struct {
	// MaxLiveBytes caps outstanding response bytes; 0 means no cap.
	MaxLiveBytes int
}

type hclFile struct {
	LogLevel *string    `hcl:"log_level,optional"`
	Kernel   *hclKernel `hcl:"kernel,block"`
	Arena    *hclArena  `hcl:"arena,block"`
}

type hclKernel struct {
	ForceGeneric *bool `hcl:"force_generic,optional"`
}

type hclArena struct {
	MaxLiveBytes *int `hcl:"max_live_bytes,optional"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{LogLevel: "info"}
}

// Load reads and validates the HCL file at path. An empty path yields
// Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}
	return decodeFile(f, path)
}

// Parse decodes HCL source held in memory. filename only labels diagnostics.
func Parse(src []byte, filename string) (Config, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}
	return decodeFile(f, filename)
}

// evalContext exposes the environment to config expressions as env.
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
	}
}

// decodeFile decodes a parsed file over Default() and validates the result.
func decodeFile(f *hcl.File, name string) (Config, error) {
	var parsed hclFile
	if diags := gohcl.DecodeBody(f.Body, evalContext(), &parsed); diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode config %s: %w", name, diags)
	}

	cfg := Default()
	if parsed.LogLevel != nil {
		cfg.LogLevel = *parsed.LogLevel
	}
	if parsed.Kernel != nil && parsed.Kernel.ForceGeneric != nil {
		cfg.Kernel.ForceGeneric = *parsed.Kernel.ForceGeneric
	}
	if parsed.Arena != nil && parsed.Arena.MaxLiveBytes != nil {
		cfg.Arena.MaxLiveBytes = *parsed.Arena.MaxLiveBytes
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q: %v", ErrInvalid, c.LogLevel, err)
	}
	if c.Arena.MaxLiveBytes < 0 {
		return fmt.Errorf("%w: arena.max_live_bytes must be >= 0, got %d", ErrInvalid, c.Arena.MaxLiveBytes)
	}
	return nil
}

// Level returns the zap level for LogLevel, or info if it does not parse.
func (c Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// NewLogger builds a production logger writing to stderr at the configured
// level.
func (c Config) NewLogger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(c.Level())
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

// ArenaOptions returns the arena options implied by the config.
func (c Config) ArenaOptions() []arena.Option {
	if c.Arena.MaxLiveBytes <= 0 {
		return nil
	}
	return []arena.Option{arena.WithLimit(c.Arena.MaxLiveBytes)}
}

// Apply pushes process-wide settings into the kernel dispatcher.
func (c Config) Apply() {
	if c.Kernel.ForceGeneric {
		cpu.ForceGeneric()
	} else {
		cpu.ResetDetection()
	}
	kernel.Reselect()
}
