package viewer

import (
	"math"
	"testing"

	"github.com/taigrr/vitrine/pkg/math3d"
	"github.com/taigrr/vitrine/pkg/models"
)

func TestCameraDistance(t *testing.T) {
	half := math.Tan(CameraFOV * math.Pi / 180 / 2)
	for _, maxDim := range []float64{0.001, 0.5, 1, 2, 17.25, 400} {
		want := 2 * maxDim / (2 * half)
		if got := CameraDistance(maxDim, CameraFOV); math.Abs(got-want) > 1e-9*want {
			t.Errorf("CameraDistance(%v) = %v, want %v", maxDim, got, want)
		}
	}
}

func TestFrameRecentersModel(t *testing.T) {
	m := boxModel("m", math3d.V3(0, 0, 0), math3d.V3(2, 4, 2))

	f := Frame(m.Root, CameraFOV)

	if !f.Center.ApproxEqual(math3d.V3(1, 2, 1), 1e-9) {
		t.Errorf("Center = %v, want (1, 2, 1)", f.Center)
	}
	if f.MaxDim != 4 {
		t.Errorf("MaxDim = %v, want 4", f.MaxDim)
	}
	if !m.Root.Position.ApproxEqual(math3d.V3(-1, -2, -1), 1e-9) {
		t.Errorf("root Position = %v, want (-1, -2, -1)", m.Root.Position)
	}
	if c := m.Root.Bounds().Center(); !c.ApproxEqual(math3d.Zero3(), 1e-9) {
		t.Errorf("framed model center = %v, want origin", c)
	}
	want := math3d.V3(0, 0, CameraDistance(4, CameraFOV))
	if !f.CameraPosition.ApproxEqual(want, 1e-9) {
		t.Errorf("CameraPosition = %v, want %v", f.CameraPosition, want)
	}
	if f.CameraTarget != math3d.Zero3() {
		t.Errorf("CameraTarget = %v, want origin", f.CameraTarget)
	}
	if f.Degenerate {
		t.Error("a model with extent is not degenerate")
	}
}

func TestFrameReflectsAboutCenter(t *testing.T) {
	tests := []struct {
		name       string
		origin     math3d.Vec3 // root position before framing
		min, max   math3d.Vec3 // mesh box in root space
		first      math3d.Vec3 // root position after one Frame
		idempotent bool
	}{
		{
			name:   "origin at box center stays put",
			origin: math3d.V3(3, 0, 0),
			min:    math3d.V3(-1, -1, -1), max: math3d.V3(1, 1, 1),
			first:      math3d.V3(3, 0, 0),
			idempotent: true,
		},
		{
			name:   "offset origin moves again on reframe",
			origin: math3d.V3(1, 0, 0),
			min:    math3d.V3(0, -1, -1), max: math3d.V3(2, 1, 1),
			first:      math3d.V3(0, 0, 0),
			idempotent: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := boxModel("m", tc.min, tc.max)
			m.Root.Position = tc.origin

			Frame(m.Root, CameraFOV)
			if !m.Root.Position.ApproxEqual(tc.first, 1e-9) {
				t.Fatalf("after first Frame Position = %v, want %v", m.Root.Position, tc.first)
			}

			Frame(m.Root, CameraFOV)
			same := m.Root.Position.ApproxEqual(tc.first, 1e-9)
			if same != tc.idempotent {
				t.Errorf("second Frame moved model to %v; idempotent = %v, want %v",
					m.Root.Position, same, tc.idempotent)
			}
		})
	}
}

func TestFrameDegenerateModel(t *testing.T) {
	tests := []struct {
		name string
		root *models.Node
	}{
		{"empty graph", models.NewNode("empty")},
		{"single point", boxModel("point", math3d.V3(1, 1, 1), math3d.V3(1, 1, 1)).Root},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := Frame(tc.root, CameraFOV)
			if !f.Degenerate {
				t.Error("Degenerate should be set")
			}
			if f.CameraPosition != math3d.Zero3() {
				t.Errorf("CameraPosition = %v, want origin", f.CameraPosition)
			}
		})
	}
}

func BenchmarkFrame(b *testing.B) {
	m := boxModel("m", math3d.V3(0, 0, 0), math3d.V3(2, 4, 2))
	for b.Loop() {
		m.Root.Position = math3d.Zero3()
		Frame(m.Root, CameraFOV)
	}
}
