package system

import (
	"image/color"
	"testing"

	"github.com/milk9111/thirdperson/ecs/component"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		wf   component.Wireframe
		want int
	}{
		{"box", component.Wireframe{Shape: component.MeshBox, Size: [3]float32{2, 2, 2}}, 12},
		{"arrow", component.Wireframe{Shape: component.MeshArrow, Size: [3]float32{2, 2, 2}}, 14},
		{"grid", component.Wireframe{Shape: component.MeshGrid, Size: [3]float32{20, 0, 20}}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Segments(tt.wf)); got != tt.want {
				t.Fatalf("segments = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBoxSegmentsStayOnExtent(t *testing.T) {
	for _, seg := range Segments(component.Wireframe{Size: [3]float32{4, 2, 6}}) {
		for _, p := range seg {
			if abs32(p.X()) != 2 || abs32(p.Y()) != 1 || abs32(p.Z()) != 3 {
				t.Fatalf("corner %v is off the box", p)
			}
		}
	}
}

func TestFog(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	tests := []struct {
		name     string
		distance float32
		far      float32
		wantA    uint8
	}{
		{"at eye", 0, 1500, 255},
		{"halfway", 750, 1500, 127},
		{"at far plane", 1500, 1500, 0},
		{"beyond far plane", 3000, 1500, 0},
		{"no far plane", 3000, 0, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fog(red, tt.distance, tt.far)
			if got.A != tt.wantA || got.R != 255 {
				t.Fatalf("fog = %+v, want alpha %d", got, tt.wantA)
			}
		})
	}
}

func TestFogKeepsTranslucentColour(t *testing.T) {
	got := Fog(color.NRGBA{R: 200, G: 100, B: 50, A: 128}, 0, 1500)
	want := color.NRGBA{R: 200, G: 100, B: 50, A: 128}
	for i, pair := range [][2]uint8{{got.R, want.R}, {got.G, want.G}, {got.B, want.B}, {got.A, want.A}} {
		d := int(pair[0]) - int(pair[1])
		if d < -1 || d > 1 {
			t.Fatalf("channel %d = %d, want %d", i, pair[0], pair[1])
		}
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
