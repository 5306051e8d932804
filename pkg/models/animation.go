package models

import (
	"math"
	"sort"

	"github.com/taigrr/vitrine/pkg/math3d"
)

// Interpolation selects how a track blends between keyframes.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCubicSpline
)

// TargetPath is the node property a track animates.
type TargetPath int

const (
	PathTranslation TargetPath = iota
	PathRotation
	PathScale
)

// components returns the number of floats per keyframe value.
func (p TargetPath) components() int {
	if p == PathRotation {
		return 4
	}
	return 3
}

// Track animates one property of one node.
//
// Values holds the keyframe data flattened, p.components() floats per
// value. For cubic spline tracks every keyframe stores three values: the
// in-tangent, the value and the out-tangent.
type Track struct {
	Node          *Node
	Path          TargetPath
	Interpolation Interpolation
	Times         []float64
	Values        []float64
}

// Clip is a named set of tracks played together.
type Clip struct {
	Name     string
	Duration float64
	Tracks   []Track
}

// ResetDuration sets Duration to the last keyframe time across all tracks.
func (c *Clip) ResetDuration() {
	c.Duration = 0
	for _, t := range c.Tracks {
		if n := len(t.Times); n > 0 && t.Times[n-1] > c.Duration {
			c.Duration = t.Times[n-1]
		}
	}
}

// value returns keyframe i's value (the middle element for cubic splines).
func (t *Track) value(i int) []float64 {
	n := t.Path.components()
	if t.Interpolation == InterpolationCubicSpline {
		off := (i*3 + 1) * n
		return t.Values[off : off+n]
	}
	return t.Values[i*n : i*n+n]
}

// tangent returns keyframe i's in (which=0) or out (which=2) tangent.
func (t *Track) tangent(i, which int) []float64 {
	n := t.Path.components()
	off := (i*3 + which) * n
	return t.Values[off : off+n]
}

// Sample evaluates the track at time tm, clamping outside the keyframe
// range, and writes the result into the target node.
func (t *Track) Sample(tm float64) {
	if t.Node == nil || len(t.Times) == 0 {
		return
	}
	out := t.sample(tm)
	switch t.Path {
	case PathTranslation:
		t.Node.Position = math3d.V3(out[0], out[1], out[2])
	case PathScale:
		t.Node.Scale = math3d.V3(out[0], out[1], out[2])
	case PathRotation:
		t.Node.Rotation = math3d.Quat{X: out[0], Y: out[1], Z: out[2], W: out[3]}.Normalize()
	}
}

func (t *Track) sample(tm float64) []float64 {
	last := len(t.Times) - 1
	if tm <= t.Times[0] {
		return t.value(0)
	}
	if tm >= t.Times[last] {
		return t.value(last)
	}

	// Index of the first keyframe strictly after tm.
	next := sort.Search(len(t.Times), func(i int) bool { return t.Times[i] > tm })
	prev := next - 1
	t0, t1 := t.Times[prev], t.Times[next]
	dt := t1 - t0
	u := (tm - t0) / dt

	switch t.Interpolation {
	case InterpolationStep:
		return t.value(prev)
	case InterpolationCubicSpline:
		return t.hermite(prev, next, u, dt)
	}

	a, b := t.value(prev), t.value(next)
	if t.Path == PathRotation {
		q := math3d.Quat{X: a[0], Y: a[1], Z: a[2], W: a[3]}.Slerp(
			math3d.Quat{X: b[0], Y: b[1], Z: b[2], W: b[3]}, u)
		return []float64{q.X, q.Y, q.Z, q.W}
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + (b[i]-a[i])*u
	}
	return out
}

// hermite evaluates the glTF cubic spline between keyframes prev and next.
func (t *Track) hermite(prev, next int, u, dt float64) []float64 {
	p0, m0 := t.value(prev), t.tangent(prev, 2)
	p1, m1 := t.value(next), t.tangent(next, 0)

	u2, u3 := u*u, u*u*u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	out := make([]float64, len(p0))
	for i := range p0 {
		out[i] = h00*p0[i] + h10*dt*m0[i] + h01*p1[i] + h11*dt*m1[i]
	}
	return out
}

// Action is the playback state of one clip inside a Mixer.
type Action struct {
	clip    *Clip
	time    float64
	playing bool
}

// Play starts the action. Playing an action that is already running has
// no effect.
func (a *Action) Play() {
	a.playing = true
}

// Stop halts the action and rewinds it.
func (a *Action) Stop() {
	a.playing = false
	a.time = 0
}

// IsRunning reports whether the action is playing.
func (a *Action) IsRunning() bool {
	return a.playing
}

// Time returns the local playback time in seconds.
func (a *Action) Time() float64 {
	return a.time
}

// Clip returns the clip the action plays.
func (a *Action) Clip() *Clip {
	return a.clip
}

// Mixer advances the actions bound to one model root by elapsed time.
// Playing actions loop forever. When several actions animate the same
// property, the one created last wins.
type Mixer struct {
	root    *Node
	actions []*Action
	time    float64
}

// NewMixer creates a mixer bound to root.
func NewMixer(root *Node) *Mixer {
	return &Mixer{root: root}
}

// Root returns the node the mixer is bound to.
func (m *Mixer) Root() *Node {
	return m.root
}

// ClipAction returns the action for clip, creating it on first use.
func (m *Mixer) ClipAction(clip *Clip) *Action {
	for _, a := range m.actions {
		if a.clip == clip {
			return a
		}
	}
	a := &Action{clip: clip}
	m.actions = append(m.actions, a)
	return a
}

// Actions returns every action created on the mixer.
func (m *Mixer) Actions() []*Action {
	return m.actions
}

// Time returns the total time the mixer has been advanced.
func (m *Mixer) Time() float64 {
	return m.time
}

// StopAllActions stops and rewinds every action.
func (m *Mixer) StopAllActions() {
	for _, a := range m.actions {
		a.Stop()
	}
}

// Update advances every playing action by dt seconds and applies the
// sampled values to the bound nodes.
func (m *Mixer) Update(dt float64) {
	m.time += dt
	for _, a := range m.actions {
		if !a.playing {
			continue
		}
		a.time += dt
		if d := a.clip.Duration; d > 0 {
			a.time = math.Mod(a.time, d)
		}
		for i := range a.clip.Tracks {
			a.clip.Tracks[i].Sample(a.time)
		}
	}
}
