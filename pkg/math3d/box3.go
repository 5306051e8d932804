package math3d

import "math"

// Box3 is an axis-aligned bounding box. The empty box has Min = +Inf and
// Max = -Inf so that expanding it by any point yields that point.
type Box3 struct {
	Min, Max Vec3
}

// EmptyBox3 returns a box that contains nothing.
func EmptyBox3() Box3 {
	inf := math.Inf(1)
	return Box3{
		Min: V3(inf, inf, inf),
		Max: V3(-inf, -inf, -inf),
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// ExpandByPoint grows the box to include p.
func (b Box3) ExpandByPoint(p Vec3) Box3 {
	return Box3{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both boxes.
func (b Box3) Union(o Box3) Box3 {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return Box3{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Center returns the midpoint of the box, or the origin for an empty box.
func (b Box3) Center() Vec3 {
	if b.IsEmpty() {
		return Zero3()
	}
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent along each axis, or zero for an empty box.
func (b Box3) Size() Vec3 {
	if b.IsEmpty() {
		return Zero3()
	}
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside or on the box.
func (b Box3) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Transform returns the box bounding all 8 transformed corners.
func (b Box3) Transform(m Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox3()
	for i := range 8 {
		c := V3(b.Min.X, b.Min.Y, b.Min.Z)
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out = out.ExpandByPoint(m.MulVec3(c))
	}
	return out
}
