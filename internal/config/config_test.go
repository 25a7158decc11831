package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/Faultbox/brushkit/internal/prtview"
	"github.com/Faultbox/brushkit/pkg/geom"
	"github.com/Faultbox/brushkit/pkg/mapfile"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Brush.DefaultShader != geom.NoDrawShader {
		t.Errorf("expected default shader %s, got %s", geom.NoDrawShader, cfg.Brush.DefaultShader)
	}
	if cfg.Brush.IntersectionTolerance != 0 {
		t.Errorf("expected zero intersection tolerance, got %g", cfg.Brush.IntersectionTolerance)
	}
	if cfg.Output.Precision != mapfile.DefaultPrecision {
		t.Errorf("expected precision %d, got %d", mapfile.DefaultPrecision, cfg.Output.Precision)
	}
	if cfg.Portals != prtview.DefaultSettings() {
		t.Error("expected default portal settings")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "brushtool.yaml")

	yamlContent := `
logging:
  level: "debug"
  log_file: "brushtool.log"

brush:
  default_shader: "textures/base_wall/concrete"
  intersection_tolerance: 0.001

output:
  precision: 3

portals:
  width_3d: 8
  zbuffer: "off"
  color_2d: "#00ff00"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "brushtool.log" {
		t.Errorf("expected log file 'brushtool.log', got %s", cfg.Logging.LogFile)
	}
	if cfg.Brush.DefaultShader != "textures/base_wall/concrete" {
		t.Errorf("unexpected default shader %s", cfg.Brush.DefaultShader)
	}
	// untouched keys keep their defaults
	if cfg.Brush.DetailShader != geom.NoDrawShader {
		t.Errorf("expected detail shader default, got %s", cfg.Brush.DetailShader)
	}
	if cfg.Brush.IntersectionTolerance != 0.001 {
		t.Errorf("expected tolerance 0.001, got %g", cfg.Brush.IntersectionTolerance)
	}
	if cfg.Output.Precision != 3 {
		t.Errorf("expected precision 3, got %d", cfg.Output.Precision)
	}
	if cfg.Portals.Width3D != 8 {
		t.Errorf("expected width_3d 8, got %g", cfg.Portals.Width3D)
	}
	if cfg.Portals.ZBuffer != prtview.ZBufferOff {
		t.Errorf("expected zbuffer off, got %s", cfg.Portals.ZBuffer)
	}
	if cfg.Portals.Color2D != (prtview.Color{R: 0, G: 255, B: 0}) {
		t.Errorf("unexpected color_2d %s", cfg.Portals.Color2D)
	}
	if !cfg.Portals.Show3D {
		t.Error("expected show_3d to keep its default")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
output:
  precision: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/brushtool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	content := "logging:\n  level: loud\noutput:\n  precision: 40\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(&Flags{ConfigPath: configPath, Precision: -1})
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"logging", "precision 40"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Brush.DefaultShader = ""
	cfg.Brush.IntersectionTolerance = -1
	cfg.Portals.Width2D = 100
	cfg.Portals.ClipRange = 0

	err := cfg.Validate()
	errs := multierr.Errors(err)
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(errs), err)
	}
	var portals int
	for _, e := range errs {
		if strings.HasPrefix(e.Error(), "portals: ") {
			portals++
		}
	}
	if portals != 2 {
		t.Errorf("expected 2 portal errors, got %d", portals)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdir(t, t.TempDir())

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(FileName, []byte("output:\n  precision: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Precision != 2 {
		t.Errorf("expected precision 2 from local file, got %d", cfg.Output.Precision)
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"--debug", "--log-level", "error"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "log level flag",
			args: []string{"--log-level", "warn", "--log-file", "/tmp/b.log"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "warn" {
					t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
				}
				if cfg.Logging.LogFile != "/tmp/b.log" {
					t.Errorf("expected log file /tmp/b.log, got %s", cfg.Logging.LogFile)
				}
			},
		},
		{
			name: "shader flag",
			args: []string{"--shader", "textures/common/clip"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Brush.DefaultShader != "textures/common/clip" {
					t.Errorf("unexpected shader %s", cfg.Brush.DefaultShader)
				}
			},
		},
		{
			name: "precision flag",
			args: []string{"--precision", "0"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Precision != 0 {
					t.Errorf("expected precision 0, got %d", cfg.Output.Precision)
				}
			},
		},
		{
			name: "charset flag",
			args: []string{"--charset", "windows-1252"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Charset != "windows-1252" {
					t.Errorf("expected charset windows-1252, got %s", cfg.Output.Charset)
				}
			},
		},
		{
			name: "no flags",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Precision != mapfile.DefaultPrecision {
					t.Errorf("expected default precision, got %d", cfg.Output.Precision)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Flags
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			f.Register(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse failed: %v", err)
			}

			cfg := Default()
			f.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "brushtool.yaml")

	cfg := Default()
	cfg.Output.Precision = 4
	cfg.Portals.ZBuffer = prtview.ZBufferTestWrite
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := Load(&Flags{ConfigPath: path, Precision: -1})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Output.Precision != 4 {
		t.Errorf("expected precision 4, got %d", loaded.Output.Precision)
	}
	if loaded.Portals != cfg.Portals {
		t.Errorf("portal settings did not survive save: %+v", loaded.Portals)
	}

	cfg.Output.Precision = -3
	if err := cfg.SaveTo(path); err == nil {
		t.Error("expected SaveTo to refuse an invalid config")
	}
}

func TestPath(t *testing.T) {
	if got := Path(&Flags{ConfigPath: "/etc/brushtool.yaml"}); got != "/etc/brushtool.yaml" {
		t.Errorf("explicit path not used: %s", got)
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	chdir(t, t.TempDir())
	if got := Path(nil); filepath.Base(got) != FileName {
		t.Errorf("expected default path ending in %s, got %s", FileName, got)
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, TOMLFileName)

	tomlContent := `
[logging]
level = "warn"

[brush]
detail_shader = "textures/common/detail"

[output]
precision = 1
charset = "latin1"

[portals]
clip_range = 4.0
zbuffer = "test-write"
color_fog = "#010203"
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(&Flags{ConfigPath: configPath, Precision: -1})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
	}
	if cfg.Brush.DetailShader != "textures/common/detail" {
		t.Errorf("unexpected detail shader %s", cfg.Brush.DetailShader)
	}
	if cfg.Brush.DefaultShader != geom.NoDrawShader {
		t.Errorf("expected default shader to keep its default, got %s", cfg.Brush.DefaultShader)
	}
	if cfg.Output.Precision != 1 || cfg.Output.Charset != "latin1" {
		t.Errorf("unexpected output section %+v", cfg.Output)
	}
	if cfg.Portals.ClipRange != 4 || cfg.Portals.ZBuffer != prtview.ZBufferTestWrite {
		t.Errorf("unexpected portal settings %+v", cfg.Portals)
	}
	if cfg.Portals.ColorFog != (prtview.Color{R: 1, G: 2, B: 3}) {
		t.Errorf("unexpected fog color %s", cfg.Portals.ColorFog)
	}
}

func TestSaveToTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), TOMLFileName)

	cfg := Default()
	cfg.Logging.Level = "debug"
	cfg.Portals.Color3D = prtview.Color{R: 0xab, G: 0xcd, B: 0xef}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !strings.Contains(string(data), "[portals]") {
		t.Errorf("expected TOML tables, got:\n%s", data)
	}

	loaded, err := Load(&Flags{ConfigPath: path, Precision: -1})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", loaded.Logging.Level)
	}
	if loaded.Portals != cfg.Portals {
		t.Errorf("portal settings did not survive TOML save: %+v", loaded.Portals)
	}
}

func TestCharsetValidation(t *testing.T) {
	cfg := Default()
	cfg.Output.Charset = "klingon"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "klingon") {
		t.Errorf("expected unknown charset error, got %v", err)
	}
}

func TestPathExpandsHome(t *testing.T) {
	got := Path(&Flags{ConfigPath: "~/brushtool.yaml"})
	if strings.HasPrefix(got, "~") || !filepath.IsAbs(got) {
		t.Errorf("expected expanded absolute path, got %s", got)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
