package geom

import "math"

// Aabb is an axis-aligned box. Containment is half-open: a point on the
// min face is inside, a point on the max face is not. This makes point
// containment a partition of space, so a body sitting exactly on a region
// boundary belongs to exactly one region.
type Aabb struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

func (a Aabb) Contains(p Vec3) bool {
	return p.X >= a.Min.X && p.X < a.Max.X &&
		p.Y >= a.Min.Y && p.Y < a.Max.Y &&
		p.Z >= a.Min.Z && p.Z < a.Max.Z
}

func (a Aabb) ContainsAabb(b Aabb) bool {
	return b.Min.X >= a.Min.X && b.Max.X <= a.Max.X &&
		b.Min.Y >= a.Min.Y && b.Max.Y <= a.Max.Y &&
		b.Min.Z >= a.Min.Z && b.Max.Z <= a.Max.Z
}

// ContainsSphere reports whether the whole sphere lies inside the box.
func (a Aabb) ContainsSphere(c Vec3, r float64) bool {
	return c.X-r >= a.Min.X && c.X+r <= a.Max.X &&
		c.Y-r >= a.Min.Y && c.Y+r <= a.Max.Y &&
		c.Z-r >= a.Min.Z && c.Z+r <= a.Max.Z
}

// IntersectsSphere reports whether the sphere touches the box.
func (a Aabb) IntersectsSphere(c Vec3, r float64) bool {
	closest := Vec3{
		X: math.Max(a.Min.X, math.Min(c.X, a.Max.X)),
		Y: math.Max(a.Min.Y, math.Min(c.Y, a.Max.Y)),
		Z: math.Max(a.Min.Z, math.Min(c.Z, a.Max.Z)),
	}
	return closest.Sub(c).Length() <= r
}

func (a Aabb) Union(b Aabb) Aabb {
	return Aabb{
		Min: Vec3{math.Min(a.Min.X, b.Min.X), math.Min(a.Min.Y, b.Min.Y), math.Min(a.Min.Z, b.Min.Z)},
		Max: Vec3{math.Max(a.Max.X, b.Max.X), math.Max(a.Max.Y, b.Max.Y), math.Max(a.Max.Z, b.Max.Z)},
	}
}

func (a Aabb) Center() Vec3 {
	return a.Min.Add(a.Max).Scale(0.5)
}

// Grown returns the box expanded by m on every face.
func (a Aabb) Grown(m float64) Aabb {
	d := Vec3{m, m, m}
	return Aabb{Min: a.Min.Sub(d), Max: a.Max.Add(d)}
}

// AabbFromSphere is the tight box around a sphere.
func AabbFromSphere(c Vec3, r float64) Aabb {
	d := Vec3{r, r, r}
	return Aabb{Min: c.Sub(d), Max: c.Add(d)}
}
