package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-bridge/internal/cpu"
	"github.com/cwbudde/algo-bridge/kernel"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "algobridge.hcl")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Config
	}{
		{
			name: "empty",
			src:  "",
			want: Default(),
		},
		{
			name: "full",
			src: `
log_level = "debug"

kernel {
  force_generic = true
}

arena {
  max_live_bytes = 4096
}
`,
			want: Config{
				LogLevel: "debug",
				Kernel:   Kernel{ForceGeneric: true},
				Arena:    Arena{MaxLiveBytes: 4096},
			},
		},
		{
			name: "empty blocks keep defaults",
			src:  "kernel {}\narena {}\n",
			want: Default(),
		},
		{
			name: "only arena",
			src:  "arena {\n  max_live_bytes = 10\n}\n",
			want: Config{LogLevel: "info", Arena: Arena{MaxLiveBytes: 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(writeConfig(t, tt.src))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		invalid bool
	}{
		{name: "syntax", src: "log_level = "},
		{name: "unknown attribute", src: "colour = \"red\"\n"},
		{name: "wrong type", src: "arena {\n  max_live_bytes = \"lots\"\n}\n"},
		{name: "bad level", src: "log_level = \"loud\"\n", invalid: true},
		{name: "negative limit", src: "arena {\n  max_live_bytes = -1\n}\n", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.src))
			if err == nil {
				t.Fatal("Load succeeded")
			}
			if got := errors.Is(err, ErrInvalid); got != tt.invalid {
				t.Fatalf("errors.Is(ErrInvalid) = %v, want %v (err %v)", got, tt.invalid, err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.hcl")); err == nil {
		t.Fatal("Load of missing file succeeded")
	}
}

func TestParse(t *testing.T) {
	got, err := Parse([]byte(`log_level = "warn"`), "inline.hcl")
	if err != nil {
		t.Fatal(err)
	}
	if got.Level() != zapcore.WarnLevel {
		t.Fatalf("Level() = %v", got.Level())
	}
}

func TestLoadAndParseAgree(t *testing.T) {
	srcs := []string{
		"",
		"log_level = \"warn\"\nkernel {\n  force_generic = true\n}\n",
		"arena {\n  max_live_bytes = 64\n}\n",
		"arena {\n  max_live_bytes = -5\n}\n",
		"colour = \"red\"\n",
	}

	for _, src := range srcs {
		path := writeConfig(t, src)
		fromFile, fileErr := Load(path)
		fromMem, memErr := Parse([]byte(src), path)

		if (fileErr == nil) != (memErr == nil) {
			t.Fatalf("%q: Load err = %v, Parse err = %v", src, fileErr, memErr)
		}
		if fileErr != nil {
			if !strings.Contains(fileErr.Error(), path) || !strings.Contains(memErr.Error(), path) {
				t.Errorf("%q: errors do not name the file: %v / %v", src, fileErr, memErr)
			}
			continue
		}
		if diff := cmp.Diff(fromFile, fromMem); diff != "" {
			t.Errorf("%q: Load and Parse differ (-file +mem):\n%s", src, diff)
		}
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("ALGOBRIDGE_TEST_LEVEL", "debug")
	t.Setenv("ALGOBRIDGE_TEST_LIMIT", "2048")

	src := `
log_level = env.ALGOBRIDGE_TEST_LEVEL

arena {
  max_live_bytes = env.ALGOBRIDGE_TEST_LIMIT
}
`
	got, err := Parse([]byte(src), "env.hcl")
	if err != nil {
		t.Fatal(err)
	}
	want := Config{LogLevel: "debug", Arena: Arena{MaxLiveBytes: 2048}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	if _, err := Parse([]byte("log_level = env.ALGOBRIDGE_TEST_UNSET_XYZ\n"), "env.hcl"); err == nil {
		t.Fatal("unset variable decoded")
	}
}

func TestLevelFallback(t *testing.T) {
	if lvl := (Config{LogLevel: "nope"}).Level(); lvl != zapcore.InfoLevel {
		t.Fatalf("Level() = %v, want info", lvl)
	}
}

func TestArenaOptions(t *testing.T) {
	if opts := Default().ArenaOptions(); len(opts) != 0 {
		t.Fatalf("default options = %d, want 0", len(opts))
	}
	cfg := Config{LogLevel: "info", Arena: Arena{MaxLiveBytes: 8}}
	if opts := cfg.ArenaOptions(); len(opts) != 1 {
		t.Fatalf("options = %d, want 1", len(opts))
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := Config{LogLevel: "error"}.NewLogger()
	if err != nil {
		t.Fatal(err)
	}
	if logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatal("warn enabled at error level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatal("error disabled at error level")
	}
}

func TestApply(t *testing.T) {
	t.Cleanup(func() {
		cpu.ResetDetection()
		kernel.Reselect()
	})

	Config{LogLevel: "info", Kernel: Kernel{ForceGeneric: true}}.Apply()
	if got := kernel.Selected().Name; got != "generic" {
		t.Fatalf("Selected() = %q after force_generic, want generic", got)
	}
	if !cpu.DetectFeatures().ForceGeneric {
		t.Fatal("features not forced")
	}

	Default().Apply()
	if cpu.DetectFeatures().ForceGeneric {
		t.Fatal("features still forced after default Apply")
	}
}
