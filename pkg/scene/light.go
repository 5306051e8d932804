package scene

import (
	"math"

	"github.com/taigrr/vitrine/pkg/math3d"
)

// Light illuminates a scene. Lights are stored on the Scene, not in the
// node graph.
type Light interface {
	// AsLightBase returns the fields every light shares.
	AsLightBase() *LightBase

	// Irradiance returns the light reaching a surface at pos with unit
	// normal n.
	Irradiance(pos, n math3d.Vec3) Color
}

// LightBase provides the core implementation of the Light interface.
type LightBase struct {
	Name      string
	On        bool
	Color     Color
	Intensity float64
}

func (lb *LightBase) AsLightBase() *LightBase {
	return lb
}

func (lb *LightBase) radiance() Color {
	if !lb.On {
		return Color{}
	}
	return lb.Color.Scale(lb.Intensity)
}

// AmbientLight lights every surface equally.
type AmbientLight struct {
	LightBase
}

// NewAmbientLight creates an ambient light.
func NewAmbientLight(name string, c Color, intensity float64) *AmbientLight {
	return &AmbientLight{LightBase{Name: name, On: true, Color: c, Intensity: intensity}}
}

func (l *AmbientLight) Irradiance(_, _ math3d.Vec3) Color {
	return l.radiance()
}

// PointLight emits from a position in all directions. Decay is the
// exponent of the inverse distance falloff; zero disables falloff.
type PointLight struct {
	LightBase
	Position math3d.Vec3
	Decay    float64
}

// NewPointLight creates a point light at the origin.
func NewPointLight(name string, c Color, intensity, decay float64) *PointLight {
	return &PointLight{
		LightBase: LightBase{Name: name, On: true, Color: c, Intensity: intensity},
		Decay:     decay,
	}
}

func (l *PointLight) Irradiance(pos, n math3d.Vec3) Color {
	d := l.Position.Sub(pos)
	dist := d.Len()
	if dist == 0 {
		return Color{}
	}
	lambert := n.Dot(d.Scale(1 / dist))
	if lambert <= 0 {
		return Color{}
	}
	falloff := 1.0
	if l.Decay > 0 {
		falloff = 1 / math.Pow(max(dist, 0.01), l.Decay)
	}
	return l.radiance().Scale(lambert * falloff)
}

// HemisphereLight blends between a sky color above and a ground color
// below, along the direction from the origin to Position.
type HemisphereLight struct {
	LightBase
	GroundColor Color
	Position    math3d.Vec3
}

// NewHemisphereLight creates a hemisphere light pointing straight up.
func NewHemisphereLight(name string, sky, ground Color, intensity float64) *HemisphereLight {
	return &HemisphereLight{
		LightBase:   LightBase{Name: name, On: true, Color: sky, Intensity: intensity},
		GroundColor: ground,
		Position:    math3d.V3(0, 1, 0),
	}
}

func (l *HemisphereLight) Irradiance(_, n math3d.Vec3) Color {
	if !l.On {
		return Color{}
	}
	up := l.Position.Normalize()
	w := 0.5*n.Dot(up) + 0.5
	return l.GroundColor.Lerp(l.Color, w).Scale(l.Intensity)
}

// ShadowCamera is the orthographic volume a shadow-casting directional
// light renders its shadow map from.
type ShadowCamera struct {
	Top, Bottom, Left, Right float64
}

// DirectionalLight shines from Position toward Target with parallel rays.
type DirectionalLight struct {
	LightBase
	Position   math3d.Vec3
	Target     math3d.Vec3
	CastShadow bool
	Shadow     ShadowCamera
}

// NewDirectionalLight creates a directional light shining straight down.
func NewDirectionalLight(name string, c Color, intensity float64) *DirectionalLight {
	return &DirectionalLight{
		LightBase: LightBase{Name: name, On: true, Color: c, Intensity: intensity},
		Position:  math3d.V3(0, 1, 0),
		Shadow:    ShadowCamera{Top: 5, Bottom: -5, Left: -5, Right: 5},
	}
}

// Direction returns the unit vector from the surface toward the light.
func (l *DirectionalLight) Direction() math3d.Vec3 {
	return l.Position.Sub(l.Target).Normalize()
}

func (l *DirectionalLight) Irradiance(_, n math3d.Vec3) Color {
	lambert := n.Dot(l.Direction())
	if lambert <= 0 {
		return Color{}
	}
	return l.radiance().Scale(lambert)
}
