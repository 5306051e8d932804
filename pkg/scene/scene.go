// Package scene holds what a renderer draws: a background color, a set of
// lights and a root node that model graphs are attached to.
package scene

import (
	"image/color"

	"github.com/taigrr/vitrine/pkg/models"
)

// Color is a linear RGB color with components in the 0-1 range.
type Color struct {
	R, G, B float64
}

// Hex converts a 0xRRGGBB value into a Color.
func Hex(v uint32) Color {
	return Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}
}

// White is full intensity white.
var White = Color{1, 1, 1}

// Scale multiplies every component by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Add returns the component-wise sum.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Mul returns the component-wise product.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Lerp blends from c to o by t.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		c.R + (o.R-c.R)*t,
		c.G + (o.G-c.G)*t,
		c.B + (o.B-c.B)*t,
	}
}

// RGBA converts to an opaque 8-bit color, clamping each component.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: 255}
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Scene is the root of everything a renderer draws.
type Scene struct {
	Background Color
	Root       *models.Node

	lights []Light
}

// New creates an empty scene with the given background.
func New(background Color) *Scene {
	return &Scene{
		Background: background,
		Root:       models.NewNode("scene"),
	}
}

// Add attaches a node to the scene root.
func (s *Scene) Add(n *models.Node) {
	s.Root.Add(n)
}

// Remove detaches a node from the scene root. It reports whether the node
// was attached.
func (s *Scene) Remove(n *models.Node) bool {
	return s.Root.Remove(n)
}

// AddLight adds a light. Lights live for the lifetime of the scene.
func (s *Scene) AddLight(l Light) {
	s.lights = append(s.lights, l)
}

// Lights returns every light in insertion order.
func (s *Scene) Lights() []Light {
	return s.lights
}

// Light returns the light with the given name, or nil.
func (s *Scene) Light(name string) Light {
	for _, l := range s.lights {
		if l.AsLightBase().Name == name {
			return l
		}
	}
	return nil
}
