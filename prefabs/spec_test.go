package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

func TestVec3SpecForms(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    mgl32.Vec3
		wantErr bool
	}{
		{"sequence", "[1, 2.5, -3]", mgl32.Vec3{1, 2.5, -3}, false},
		{"mapping", "{x: 4, z: 6}", mgl32.Vec3{4, 0, 6}, false},
		{"short sequence", "[1, 2]", mgl32.Vec3{}, true},
		{"not numbers", "[a, b, c]", mgl32.Vec3{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Vec3Spec
			err := yaml.Unmarshal([]byte(tt.src), &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && v.Vec3() != tt.want {
				t.Fatalf("vec = %v, want %v", v.Vec3(), tt.want)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF7043", color.NRGBA{R: 0xFF, G: 0x70, B: 0x43, A: 0xFF}, false},
		{"000000B0", color.NRGBA{A: 0xB0}, false},
		{"#FFF", color.NRGBA{}, true},
		{"#GG0000", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Fatalf("color = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYAMLColorFallback(t *testing.T) {
	var c YAMLColor
	if c.Or(color.White) != color.White {
		t.Fatalf("unset color should fall back")
	}
	if err := yaml.Unmarshal([]byte(`"#102030"`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Or(color.White) != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}) {
		t.Fatalf("color = %v", c.Color)
	}
	if err := yaml.Unmarshal([]byte(`[1, 2]`), &c); err == nil {
		t.Fatalf("expected an error for a non-scalar color")
	}
}

func TestCleanPaths(t *testing.T) {
	scripts := map[string]string{
		"bot.tengo":                 "scripts/bot.tengo",
		"scripts/bot.tengo":         "scripts/bot.tengo",
		"prefabs/scripts/bot.tengo": "scripts/bot.tengo",
		"prefabs/bot.tengo":         "scripts/bot.tengo",
	}
	for in, want := range scripts {
		if got := cleanScriptPath(in); got != want {
			t.Errorf("cleanScriptPath(%q) = %q, want %q", in, got, want)
		}
	}
	if got := cleanPrefabPath("prefabs/bot.yaml"); got != "bot.yaml" {
		t.Errorf("cleanPrefabPath = %q", got)
	}
	if got := BaseName("some/dir/prefabs/bot.yaml"); got != "bot.yaml" {
		t.Errorf("BaseName = %q", got)
	}
}

func TestEmbeddedPrefabsDecode(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) == 0 {
		t.Fatalf("no embedded prefabs")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			switch name {
			case "arena.yaml":
				spec, err := LoadArenaSpec()
				if err != nil || len(spec.Walls) == 0 {
					t.Fatalf("arena: %v", err)
				}
			case "health_bar.yaml":
				spec, err := LoadHealthBarSpec()
				if err != nil || spec.Width <= 0 || spec.Height <= 0 {
					t.Fatalf("health bar: %v", err)
				}
			default:
				spec, err := LoadEntityBuildSpec(name)
				if err != nil || len(spec.Components) == 0 {
					t.Fatalf("entity spec: %v", err)
				}
			}
		})
	}
	if _, err := LoadScript("bot.tengo"); err != nil {
		t.Fatalf("embedded script: %v", err)
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.MkdirAll(filepath.Join(dir, "prefabs", "scripts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefabs", "health_bar.yaml"), []byte("name: health_bar\nwidth: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefabs", "scripts", "bot.tengo"), []byte("// edited"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	spec, err := LoadHealthBarSpec()
	if err != nil {
		t.Fatalf("LoadHealthBarSpec: %v", err)
	}
	// zero sizes fall back to the defaults
	if spec.Width != 120 || spec.Height != 24 {
		t.Fatalf("spec = %+v", spec)
	}
	src, err := LoadScript("bot.tengo")
	if err != nil || string(src) != "// edited" {
		t.Fatalf("script = %q, %v", src, err)
	}
	if _, ok := ModTime("health_bar.yaml"); !ok {
		t.Fatalf("ModTime missed the disk copy")
	}
	// files only present in the binary still load
	if _, err := LoadArenaSpec(); err != nil {
		t.Fatalf("embedded fallback: %v", err)
	}
}

func TestDecodeComponentSpec(t *testing.T) {
	raw := map[string]any{"speed": 12, "turn_speed": 90.5}
	spec, err := DecodeComponentSpec[ControlStateComponentSpec](raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if spec.Speed != 12 || spec.TurnSpeed != 90.5 {
		t.Fatalf("spec = %+v", spec)
	}
	if zero, err := DecodeComponentSpec[ControlStateComponentSpec](nil); err != nil || zero != (ControlStateComponentSpec{}) {
		t.Fatalf("nil raw: %+v %v", zero, err)
	}
}
