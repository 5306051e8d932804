package scene

import (
	"image/color"
	"math"
	"testing"

	"github.com/taigrr/vitrine/pkg/math3d"
	"github.com/taigrr/vitrine/pkg/models"
)

func TestHex(t *testing.T) {
	tests := []struct {
		name string
		hex  uint32
		want color.RGBA
	}{
		{"white", 0xffffff, color.RGBA{255, 255, 255, 255}},
		{"black", 0x000000, color.RGBA{0, 0, 0, 255}},
		{"ground gray", 0x444444, color.RGBA{0x44, 0x44, 0x44, 255}},
		{"mixed", 0x12ab7f, color.RGBA{0x12, 0xab, 0x7f, 255}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Hex(tc.hex).RGBA(); got != tc.want {
				t.Errorf("Hex(%#06x).RGBA() = %v, want %v", tc.hex, got, tc.want)
			}
		})
	}
}

func TestColorRGBAClamps(t *testing.T) {
	got := Color{R: 2, G: -1, B: 0.5}.RGBA()
	if got.R != 255 || got.G != 0 || got.B != 128 {
		t.Errorf("RGBA() = %v, want {255 0 128 255}", got)
	}
}

func TestSceneAddRemove(t *testing.T) {
	s := New(White)
	n := models.NewNode("model")

	s.Add(n)
	if n.Parent() != s.Root {
		t.Fatal("node should be attached to the scene root")
	}
	if !s.Remove(n) {
		t.Error("Remove should report an attached node")
	}
	if len(s.Root.Children()) != 0 {
		t.Error("root should be empty after Remove")
	}
}

func TestSceneLights(t *testing.T) {
	s := New(White)
	s.AddLight(NewAmbientLight("ambient", White, 0.5))
	s.AddLight(NewPointLight("point", White, 2, 0))

	if len(s.Lights()) != 2 {
		t.Fatalf("got %d lights, want 2", len(s.Lights()))
	}
	if _, ok := s.Light("point").(*PointLight); !ok {
		t.Error("Light(point) should return the point light")
	}
	if s.Light("missing") != nil {
		t.Error("Light(missing) should be nil")
	}
}

func TestIrradiance(t *testing.T) {
	up := math3d.V3(0, 1, 0)
	down := math3d.V3(0, -1, 0)

	dir := NewDirectionalLight("dir", White, 1)
	dir.Position = math3d.V3(0, 10, 0)

	point := NewPointLight("point", White, 2, 0)
	point.Position = math3d.V3(0, 100, 0)

	decayed := NewPointLight("decayed", White, 1, 2)
	decayed.Position = math3d.V3(0, 2, 0)

	hemi := NewHemisphereLight("hemi", White, Hex(0x000000), 1)

	off := NewAmbientLight("off", White, 1)
	off.On = false

	tests := []struct {
		name  string
		light Light
		n     math3d.Vec3
		want  float64
	}{
		{"ambient ignores normal", NewAmbientLight("a", White, 0.5), down, 0.5},
		{"switched off", off, up, 0},
		{"directional facing", dir, up, 1},
		{"directional facing away", dir, down, 0},
		{"point without decay", point, up, 2},
		{"point with inverse square decay", decayed, up, 0.25},
		{"hemisphere sky", hemi, up, 1},
		{"hemisphere ground", hemi, down, 0},
		{"hemisphere horizon", hemi, math3d.V3(1, 0, 0), 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.light.Irradiance(math3d.Zero3(), tc.n)
			if math.Abs(got.R-tc.want) > 1e-9 {
				t.Errorf("Irradiance().R = %v, want %v", got.R, tc.want)
			}
		})
	}
}
