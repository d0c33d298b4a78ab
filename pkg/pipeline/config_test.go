package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dieshot/dienet/pkg/errors"
)

const tomlProject = `
dir = "layers"
process = "cmos"
formats = ["js", "json"]
scale = 3

[layers]
metal = "m1.dat"

[cache]
disabled = true
`

const yamlProject = `
dir: layers
output: build
chip_height: 5000
layers:
  vias: contacts.dat
cache:
  redis_url: redis://localhost:6379/0
`

func TestDecodeOptionsTOML(t *testing.T) {
	opts, err := DecodeOptions([]byte(tomlProject), ".toml")
	if err != nil {
		t.Fatalf("DecodeOptions: %v", err)
	}
	if opts.Dir != "layers" || opts.Process != "cmos" || opts.Scale != 3 {
		t.Errorf("opts = %+v", opts)
	}
	if len(opts.Formats) != 2 || opts.Formats[1] != "json" {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Layers.Metal != "m1.dat" {
		t.Errorf("Layers.Metal = %q", opts.Layers.Metal)
	}
	if !opts.Cache.Disabled {
		t.Error("Cache.Disabled = false")
	}
}

func TestDecodeOptionsYAML(t *testing.T) {
	opts, err := DecodeOptions([]byte(yamlProject), ".yml")
	if err != nil {
		t.Fatalf("DecodeOptions: %v", err)
	}
	if opts.Output != "build" || opts.ChipHeight != 5000 {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Layers.Vias != "contacts.dat" {
		t.Errorf("Layers.Vias = %q", opts.Layers.Vias)
	}
	if opts.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Cache.RedisURL = %q", opts.Cache.RedisURL)
	}
}

func TestDecodeOptionsEmptyYAML(t *testing.T) {
	if _, err := DecodeOptions(nil, ".yaml"); err != nil {
		t.Errorf("empty YAML: %v", err)
	}
}

func TestDecodeOptionsRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name string
		data string
		ext  string
	}{
		{"toml", "procss = \"nmos\"\n", ".toml"},
		{"toml nested", "[layers]\nmetall = \"x\"\n", ".toml"},
		{"yaml", "procss: nmos\n", ".yaml"},
		{"extension", "{}", ".json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeOptions([]byte(tt.data), tt.ext); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadOptionsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dienet.toml"), []byte(tomlProject), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptions(dir)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if want := filepath.Join(dir, "layers"); opts.Dir != want {
		t.Errorf("Dir = %q, want %q", opts.Dir, want)
	}
	if opts.Output != "" {
		t.Errorf("Output = %q, want default left unset", opts.Output)
	}
}

func TestLoadOptionsResolvesOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chip.yaml")
	if err := os.WriteFile(path, []byte(yamlProject), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if want := filepath.Join(dir, "build"); opts.Output != want {
		t.Errorf("Output = %q, want %q", opts.Output, want)
	}
}

func TestLoadOptionsBareDirectory(t *testing.T) {
	dir := t.TempDir()
	opts, err := LoadOptions(dir)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Dir != dir {
		t.Errorf("Dir = %q, want %q", opts.Dir, dir)
	}
}

func TestLoadOptionsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadOptions(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v, want FILE_NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("scale = \"big\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadOptions(bad)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad file: err = %v, want INVALID_CONFIG", err)
	}
}
