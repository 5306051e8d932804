package models

import (
	"math"
	"testing"

	"github.com/taigrr/vitrine/pkg/math3d"
)

func TestTrackSample(t *testing.T) {
	tests := []struct {
		name   string
		interp Interpolation
		values []float64
		at     float64
		want   float64
	}{
		{"linear midpoint", InterpolationLinear, []float64{0, 0, 0, 10, 0, 0}, 0.5, 5},
		{"linear clamps before start", InterpolationLinear, []float64{0, 0, 0, 10, 0, 0}, -1, 0},
		{"linear clamps after end", InterpolationLinear, []float64{0, 0, 0, 10, 0, 0}, 3, 10},
		{"step holds previous key", InterpolationStep, []float64{0, 0, 0, 10, 0, 0}, 0.9, 0},
		// in-tangent, value, out-tangent per key; zero tangents give smoothstep.
		{"cubic spline midpoint", InterpolationCubicSpline, []float64{
			0, 0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 10, 0, 0, 0, 0, 0,
		}, 0.5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNode("n")
			track := Track{
				Node:          n,
				Path:          PathTranslation,
				Interpolation: tt.interp,
				Times:         []float64{0, 1},
				Values:        tt.values,
			}
			track.Sample(tt.at)
			if math.Abs(n.Position.X-tt.want) > 1e-9 {
				t.Errorf("X = %f, want %f", n.Position.X, tt.want)
			}
		})
	}
}

func TestTrackSampleRotation(t *testing.T) {
	n := NewNode("n")
	end := math3d.QuatFromAxisAngle(math3d.V3(0, 1, 0), math.Pi/2)
	track := Track{
		Node:   n,
		Path:   PathRotation,
		Times:  []float64{0, 1},
		Values: []float64{0, 0, 0, 1, end.X, end.Y, end.Z, end.W},
	}
	track.Sample(0.5)

	want := math3d.QuatFromAxisAngle(math3d.V3(0, 1, 0), math.Pi/4)
	if math.Abs(math.Abs(n.Rotation.Dot(want))-1) > 1e-9 {
		t.Errorf("Rotation = %+v, want %+v", n.Rotation, want)
	}
}

func slideClip(n *Node) *Clip {
	clip := &Clip{
		Name: "slide",
		Tracks: []Track{{
			Node:   n,
			Path:   PathTranslation,
			Times:  []float64{0, 2},
			Values: []float64{0, 0, 0, 4, 0, 0},
		}},
	}
	clip.ResetDuration()
	return clip
}

func TestMixerLoops(t *testing.T) {
	n := NewNode("n")
	mixer := NewMixer(n)
	action := mixer.ClipAction(slideClip(n))
	action.Play()

	mixer.Update(1)
	if math.Abs(n.Position.X-2) > 1e-9 {
		t.Errorf("X after 1s = %f, want 2", n.Position.X)
	}

	mixer.Update(1.5)
	if math.Abs(action.Time()-0.5) > 1e-9 {
		t.Errorf("action time = %f, want 0.5 after wrapping", action.Time())
	}
	if math.Abs(n.Position.X-1) > 1e-9 {
		t.Errorf("X after wrapping = %f, want 1", n.Position.X)
	}
	if mixer.Time() != 2.5 {
		t.Errorf("mixer time = %f, want 2.5", mixer.Time())
	}
}

func TestMixerClipActionIsCached(t *testing.T) {
	n := NewNode("n")
	mixer := NewMixer(n)
	clip := slideClip(n)

	if mixer.ClipAction(clip) != mixer.ClipAction(clip) {
		t.Error("ClipAction should return the same action for the same clip")
	}
	if len(mixer.Actions()) != 1 {
		t.Errorf("mixer has %d actions, want 1", len(mixer.Actions()))
	}
}

func TestMixerStoppedActionsDoNotAdvance(t *testing.T) {
	n := NewNode("n")
	mixer := NewMixer(n)
	action := mixer.ClipAction(slideClip(n))

	mixer.Update(1)
	if action.Time() != 0 || n.Position.X != 0 {
		t.Error("an action that was never played should not advance")
	}

	action.Play()
	mixer.Update(1)
	mixer.StopAllActions()
	if action.IsRunning() || action.Time() != 0 {
		t.Error("StopAllActions should stop and rewind")
	}
}

func BenchmarkMixerUpdate(b *testing.B) {
	n := NewNode("n")
	mixer := NewMixer(n)
	mixer.ClipAction(slideClip(n)).Play()

	for b.Loop() {
		mixer.Update(1.0 / 60)
	}
}
