package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
	if !cfg.Scaling.Enabled || cfg.Scaling.MinWidth != 1000 {
		t.Errorf("unexpected scaling defaults: %+v", cfg.Scaling)
	}
	if len(cfg.Classifiers) != 3 {
		t.Errorf("expected 3 classifiers, got %d", len(cfg.Classifiers))
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Scaling.MinWidth != want.Scaling.MinWidth || len(cfg.Classifiers) != len(want.Classifiers) {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	content := `
scaling:
  enabled: true
  minWidth: 1500
segmentation:
  binaryThreshold: 2
  foregroundFraction: 0.6
  minArea: 400
  refWidth: 5510
  refHeight: 408
workers: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Scaling.MinWidth != 1500 {
		t.Errorf("minWidth = %d, want 1500", cfg.Scaling.MinWidth)
	}
	if cfg.Segmentation.BinaryThreshold != 2 || cfg.Segmentation.MinArea != 400 {
		t.Errorf("segmentation overrides not applied: %+v", cfg.Segmentation)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Workers)
	}
	// Sections absent from the file keep their defaults.
	if len(cfg.Classifiers) != 3 {
		t.Errorf("classifiers should stay at defaults, got %d", len(cfg.Classifiers))
	}
	if cfg.Zones.HeightFrac != 0.20 {
		t.Errorf("zones.heightFrac = %v, want default 0.20", cfg.Zones.HeightFrac)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unparsable yaml", "scaling: ["},
		{"zero min width", "scaling:\n  minWidth: 0\n"},
		{"overlapping zones", "zones:\n  leftStart: 0.3\n  leftEnd: 0.6\n  rightStart: 0.5\n  rightEnd: 0.7\n  heightFrac: 0.2\n"},
		{"height fraction out of range", "zones:\n  leftStart: 0.25\n  leftEnd: 0.45\n  rightStart: 0.55\n  rightEnd: 0.75\n  heightFrac: 1.5\n"},
		{"foreground fraction out of range", "segmentation:\n  foregroundFraction: 1.2\n  refWidth: 5510\n  refHeight: 408\n"},
		{"duplicate classifier", `
classifiers:
  - name: red
  - name: red
  - name: blue
  - name: white
`},
		{"missing required classifier", `
classifiers:
  - name: red
  - name: blue
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected Load to fail")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tuning.yaml")

	orig := Default()
	orig.Scaling.MinWidth = 1234
	orig.Segmentation.MinArea = 321

	if err := Save(orig, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Scaling.MinWidth != 1234 {
		t.Errorf("minWidth = %d, want 1234", loaded.Scaling.MinWidth)
	}
	if loaded.Segmentation.MinArea != 321 {
		t.Errorf("minArea = %d, want 321", loaded.Segmentation.MinArea)
	}
	if loaded.Classifiers[1].Hue == nil {
		t.Error("blue hue rule lost in round trip")
	}
}
