package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	d := Default()
	if d.ChunkSize != 16 {
		t.Fatalf("chunk_size default = %d, want 16", d.ChunkSize)
	}
	if d.TickRateHz != 20 {
		t.Fatalf("tick_rate_hz default = %d, want 20", d.TickRateHz)
	}
	if d.RaycastStep != 0.1 {
		t.Fatalf("raycast_step default = %v, want 0.1", d.RaycastStep)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("default tuning should validate: %v", err)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tuning.yaml")
	body := "tick_rate_hz: 5\nload_radius: 7\nseed: 999\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.TickRateHz != 5 || got.LoadRadius != 7 || got.Seed != 999 {
		t.Fatalf("explicit values not honored: %+v", got)
	}
	if got.ChunkSize != 16 || got.DirtDepth != 3 {
		t.Fatalf("defaults not applied for missing keys: %+v", got)
	}
}

func TestValidateRejectsTunnelingStep(t *testing.T) {
	d := Default()
	d.RaycastStep = 1.5
	if err := d.Validate(); err == nil {
		t.Fatalf("raycast_step > 1 should be rejected")
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tuning.yaml")
	body := "raycast_step: 2.0\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("a tuning file with raycast_step > 1 must be rejected at load")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
