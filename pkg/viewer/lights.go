package viewer

import (
	"github.com/taigrr/vitrine/pkg/math3d"
	"github.com/taigrr/vitrine/pkg/scene"
)

// LightRig holds the four lights added at construction. They stay in the
// scene for the viewer's lifetime.
type LightRig struct {
	Ambient     *scene.AmbientLight
	Point       *scene.PointLight
	Hemisphere  *scene.HemisphereLight
	Directional *scene.DirectionalLight
}

// ComposeLights adds the light rig to s.
func ComposeLights(s *scene.Scene, ambientIntensity float64) LightRig {
	rig := LightRig{
		Ambient:     scene.NewAmbientLight("ambient", scene.White, ambientIntensity),
		Point:       scene.NewPointLight("point", scene.White, 2, 0),
		Hemisphere:  scene.NewHemisphereLight("hemisphere", scene.White, scene.Hex(0x444444), 0.8),
		Directional: scene.NewDirectionalLight("directional", scene.White, 1),
	}

	rig.Hemisphere.Position = math3d.V3(0, 200, 0)

	rig.Directional.Position = math3d.V3(0, 200, 100)
	rig.Directional.CastShadow = true
	rig.Directional.Shadow = scene.ShadowCamera{Top: 180, Bottom: -100, Left: -120, Right: 120}

	s.AddLight(rig.Ambient)
	s.AddLight(rig.Point)
	s.AddLight(rig.Hemisphere)
	s.AddLight(rig.Directional)
	return rig
}
