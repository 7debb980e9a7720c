package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/objmesh/internal/model"
	"github.com/Faultbox/objmesh/pkg/obj"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Parse.Policy != "strict" {
		t.Errorf("expected policy strict, got %s", cfg.Parse.Policy)
	}
	if cfg.Parse.Encoding != "utf-8" {
		t.Errorf("expected encoding utf-8, got %s", cfg.Parse.Encoding)
	}
	if cfg.Emit.Mode != "indexed" {
		t.Errorf("expected mode indexed, got %s", cfg.Emit.Mode)
	}
	if cfg.Emit.Barycentric {
		t.Error("expected barycentric to be false by default")
	}
	if cfg.Emit.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Emit.Workers)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "objtool.yaml")

	yamlContent := `
parse:
  policy: lenient
  encoding: euc-kr

emit:
  mode: expanded
  barycentric: true
  material_id: 4
  material_attribute: true
  workers: 8
  materials:
    brick: 1
    glass: 2

logging:
  level: "debug"
  log_file: "objtool.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Parse.Policy != "lenient" {
		t.Errorf("expected policy lenient, got %s", cfg.Parse.Policy)
	}
	if cfg.Parse.Encoding != "euc-kr" {
		t.Errorf("expected encoding euc-kr, got %s", cfg.Parse.Encoding)
	}
	if cfg.Emit.Mode != "expanded" || !cfg.Emit.Barycentric {
		t.Errorf("expected expanded barycentric emission, got %+v", cfg.Emit)
	}
	if cfg.Emit.MaterialID != 4 || cfg.Emit.Workers != 8 {
		t.Errorf("unexpected emit settings %+v", cfg.Emit)
	}
	if cfg.Emit.Materials["glass"] != 2 {
		t.Errorf("expected glass material 2, got %d", cfg.Emit.Materials["glass"])
	}
	if cfg.Logging.LogFile != "objtool.log" {
		t.Errorf("expected log file 'objtool.log', got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate: %v", err)
	}

	popts := cfg.ParseOptions()
	if popts.Policy != obj.Lenient || popts.Encoding != "euc-kr" {
		t.Errorf("parse options = %+v", popts)
	}
	eopts := cfg.EmitOptions()
	if eopts.Mode != model.Expanded || !eopts.Barycentric || !eopts.MaterialAttribute || eopts.Materials["brick"] != 1 {
		t.Errorf("emit options = %+v", eopts)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad syntax", "emit:\n  workers: not a number\n  invalid syntax here\n"},
		{"unknown key", "emit:\n  modes: expanded\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if cfg.Emit.Mode != "indexed" {
		t.Errorf("defaults should survive an empty file, got mode %s", cfg.Emit.Mode)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/objtool.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad policy", func(c *Config) { c.Parse.Policy = "skip" }, true},
		{"bad encoding", func(c *Config) { c.Parse.Encoding = "klingon" }, true},
		{"bad mode", func(c *Config) { c.Emit.Mode = "strips" }, true},
		{"barycentric indexed", func(c *Config) { c.Emit.Barycentric = true }, true},
		{"barycentric expanded", func(c *Config) {
			c.Emit.Barycentric = true
			c.Emit.Mode = "expanded"
		}, false},
		{"negative workers", func(c *Config) { c.Emit.Workers = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "objtool.yaml")
	if err := os.WriteFile(configPath, []byte("emit:\n  mode: expanded\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find objtool.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "barycentric forces expanded",
			setup: func() { *flagBarycentric = true },
			verify: func(cfg *Config) {
				if !cfg.Emit.Barycentric || cfg.Emit.Mode != "expanded" {
					t.Errorf("expected expanded barycentric, got %+v", cfg.Emit)
				}
			},
			teardown: func() { *flagBarycentric = false },
		},
		{
			name: "policy and encoding",
			setup: func() {
				*flagPolicy = "lenient"
				*flagEncoding = "latin1"
			},
			verify: func(cfg *Config) {
				if cfg.Parse.Policy != "lenient" || cfg.Parse.Encoding != "latin1" {
					t.Errorf("unexpected parse config %+v", cfg.Parse)
				}
			},
			teardown: func() {
				*flagPolicy = ""
				*flagEncoding = ""
			},
		},
		{
			name: "material and workers",
			setup: func() {
				*flagMaterialID = 3
				*flagWorkers = 4
			},
			verify: func(cfg *Config) {
				if cfg.Emit.MaterialID != 3 || cfg.Emit.Workers != 4 {
					t.Errorf("unexpected emit config %+v", cfg.Emit)
				}
			},
			teardown: func() {
				*flagMaterialID = -1
				*flagWorkers = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			if err := applyFlags(cfg); err != nil {
				t.Fatalf("applyFlags: %v", err)
			}

			tt.verify(cfg)
		})
	}
}

func TestApplyFlagsMaterialRange(t *testing.T) {
	defer func() { *flagMaterialID = -1 }()

	tests := []struct {
		id      int64
		wantErr bool
	}{
		{0, false},
		{4294967295, false},
		{4294967296, true},
		{1 << 40, true},
	}
	for _, tt := range tests {
		*flagMaterialID = tt.id
		cfg := Default()
		err := applyFlags(cfg)
		if (err != nil) != tt.wantErr {
			t.Errorf("applyFlags with -material %d: err = %v, wantErr %v", tt.id, err, tt.wantErr)
			continue
		}
		if err == nil && int64(cfg.Emit.MaterialID) != tt.id {
			t.Errorf("material id = %d, want %d", cfg.Emit.MaterialID, tt.id)
		}
	}

	*flagMaterialID = 4294967296
	if _, err := Load(); err == nil {
		t.Error("Load accepted an out-of-range -material")
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "objtool.yaml")

	yamlContent := `
parse:
  policy: lenient
emit:
  mode: expanded
  workers: 2
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWorkers = 6
	defer func() {
		*flagConfig = ""
		*flagWorkers = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Workers from flag, mode and policy from file
	if cfg.Emit.Workers != 6 {
		t.Errorf("expected 6 workers from flag, got %d", cfg.Emit.Workers)
	}
	if cfg.Emit.Mode != "expanded" {
		t.Errorf("expected mode expanded from file, got %s", cfg.Emit.Mode)
	}
	if cfg.Parse.Policy != "lenient" {
		t.Errorf("expected policy lenient from file, got %s", cfg.Parse.Policy)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "objtool.yaml")

	cfg := Default()
	cfg.Emit.Mode = "expanded"
	cfg.Emit.Materials = map[string]uint32{"stone": 5}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "stone: 5") {
		t.Errorf("marshaled config missing materials:\n%s", data)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Emit.Mode != "expanded" || loaded.Emit.Materials["stone"] != 5 {
		t.Errorf("reloaded emit config = %+v", loaded.Emit)
	}
}

func TestParseFlagsArgs(t *testing.T) {
	defer func() { *flagMode = "" }()

	ParseFlags([]string{"-mode", "expanded", "mesh.obj"})
	if *flagMode != "expanded" {
		t.Errorf("expected mode flag expanded, got %s", *flagMode)
	}
	if args := Args(); len(args) != 1 || args[0] != "mesh.obj" {
		t.Errorf("Args() = %v, want [mesh.obj]", args)
	}
}
