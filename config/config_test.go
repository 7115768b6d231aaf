package config

import (
	"os"
	"strings"
	"testing"
)

func TestParseBasicSections(t *testing.T) {
	cfg := New()
	r := strings.NewReader(`
# a comment
[engine]
tick_rate = 60
debug = true

[spatial]
chunk_width = 200.5
label = arena_1
`)
	if err := cfg.parse(r); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if v := cfg.MustInt("engine/tick_rate"); v != 60 {
		t.Errorf("engine/tick_rate = %d, want 60", v)
	}
	if v := cfg.MustBool("engine/debug"); !v {
		t.Errorf("engine/debug = %v, want true", v)
	}
	if v := cfg.MustFloat("spatial/chunk_width"); v != 200.5 {
		t.Errorf("spatial/chunk_width = %v, want 200.5", v)
	}
	if v := cfg.MustString("spatial/label"); v != "arena_1" {
		t.Errorf("spatial/label = %q, want arena_1", v)
	}
}

func TestMustPanicsOnUnsetPath(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading an unset path")
		}
	}()
	New().MustInt("nope/nope")
}

func TestMustPanicsOnWrongKind(t *testing.T) {
	cfg := New()
	if err := cfg.parse(strings.NewReader("[s]\nk = true\n")); err != nil {
		t.Fatalf("parse: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading a bool entry as an int")
		}
	}()
	cfg.MustInt("s/k")
}

func TestOrFallsBackToDefaultWhenAbsent(t *testing.T) {
	cfg := New()
	if got := cfg.IntOr("missing/path", 42); got != 42 {
		t.Errorf("IntOr = %d, want default 42", got)
	}
}

func TestMalformedLinesAreSkippedNotFatal(t *testing.T) {
	cfg := New()
	err := cfg.parse(strings.NewReader(`
no_section_here = 1
[engine]
malformed line without equals
tick_rate = 30
`))
	if err != nil {
		t.Fatalf("parse should tolerate malformed lines, got error: %v", err)
	}
	if v := cfg.MustInt("engine/tick_rate"); v != 30 {
		t.Errorf("engine/tick_rate = %d, want 30 (later valid entry still parsed)", v)
	}
	if _, ok := cfg.Get("engine/malformed"); ok {
		t.Error("malformed line should not have produced an entry")
	}
}

func TestLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/engine.cfg"
	if err := os.WriteFile(path, []byte("[engine]\ntick_rate = 144\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if v := cfg.MustInt("engine/tick_rate"); v != 144 {
		t.Errorf("engine/tick_rate = %d, want 144", v)
	}
}

func TestLoadDirMergesAllCfgFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/a.cfg", []byte("[a]\nx = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir+"/b.cfg", []byte("[b]\ny = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir+"/not_cfg.txt", []byte("[c]\nz = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if v := cfg.MustInt("a/x"); v != 1 {
		t.Errorf("a/x = %d, want 1", v)
	}
	if v := cfg.MustInt("b/y"); v != 2 {
		t.Errorf("b/y = %d, want 2", v)
	}
	if _, ok := cfg.Get("c/z"); ok {
		t.Error("non-.cfg file should not have been parsed")
	}
}

func TestFrameFromEnvOverride(t *testing.T) {
	t.Setenv("FORGE_TICK_RATE", "144")
	cfg := FrameFromEnv()
	if cfg.TickRate != 144 {
		t.Errorf("TickRate = %d, want 144", cfg.TickRate)
	}
}

func TestLoadAppliesAllDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Frame.TickRate == 0 {
		t.Error("expected a non-zero default tick rate")
	}
	if cfg.Spatial.ChunkWidth == 0 {
		t.Error("expected a non-zero default chunk width")
	}
	if cfg.Limits.InitialEntityCapacity == 0 {
		t.Error("expected a non-zero default entity capacity")
	}
}
