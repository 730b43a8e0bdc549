package engine

import (
	"sort"

	"physgrid.dev/internal/geom"
	"physgrid.dev/internal/sim/object"
)

type basicBody struct {
	cold        object.Cold
	pos         geom.Vec3
	linvel      geom.Vec3
	angvel      geom.Vec3
	kinTarget   *geom.Vec3
	radius      float64
	watchRadius float64
}

// Basic is the reference World: semi-implicit Euler integration with
// bounding-sphere contact detection and no contact resolution. It exists
// to exercise the coordination contract, not to be a real solver.
type Basic struct {
	dt          float64
	gravity     geom.Vec3
	watchMargin float64

	next   Handle
	bodies map[Handle]*basicBody
	joints []JointRef
}

func NewBasic(dt, gravityY, watchMargin float64) *Basic {
	return &Basic{
		dt:          dt,
		gravity:     geom.Vec3{Y: gravityY},
		watchMargin: watchMargin,
		bodies:      map[Handle]*basicBody{},
	}
}

func (b *Basic) Timestep() float64 { return b.dt }

func (b *Basic) Step() {
	for _, body := range b.bodies {
		switch body.cold.BodyType {
		case object.Dynamic:
			body.linvel = body.linvel.Add(b.gravity.Scale(b.dt))
			body.pos = body.pos.Add(body.linvel.Scale(b.dt))
		case object.Kinematic:
			if body.kinTarget != nil {
				body.linvel = body.kinTarget.Sub(body.pos).Scale(1 / b.dt)
				body.pos = *body.kinTarget
				body.kinTarget = nil
			} else {
				body.pos = body.pos.Add(body.linvel.Scale(b.dt))
			}
		}
	}
}

func (b *Basic) Insert(cold object.Cold, warm object.Warm) Handle {
	b.next++
	h := b.next
	r := cold.Shape.BoundingRadius()
	b.bodies[h] = &basicBody{
		cold:        cold,
		pos:         warm.Position,
		linvel:      warm.LinVel,
		angvel:      warm.AngVel,
		radius:      r,
		watchRadius: r * b.watchMargin,
	}
	return h
}

func (b *Basic) Remove(h Handle) {
	delete(b.bodies, h)
	kept := b.joints[:0]
	for _, j := range b.joints {
		if j.A != h && j.B != h {
			kept = append(kept, j)
		}
	}
	b.joints = kept
}

func (b *Basic) InsertJoint(a, h Handle, j object.Joint) {
	if b.bodies[a] == nil || b.bodies[h] == nil {
		return
	}
	if h < a {
		a, h = h, a
	}
	b.joints = append(b.joints, JointRef{A: a, B: h, Joint: j})
}

func (b *Basic) SetNextKinematicTarget(h Handle, pos geom.Vec3) {
	if body := b.bodies[h]; body != nil && body.cold.BodyType == object.Kinematic {
		p := pos
		body.kinTarget = &p
	}
}

func (b *Basic) Teleport(h Handle, pos geom.Vec3) {
	if body := b.bodies[h]; body != nil {
		body.pos = pos
		body.kinTarget = nil
	}
}

func (b *Basic) SetWarm(h Handle, warm object.Warm) {
	if body := b.bodies[h]; body != nil {
		body.pos = warm.Position
		body.linvel = warm.LinVel
		body.angvel = warm.AngVel
		body.kinTarget = nil
	}
}

func (b *Basic) SetBodyType(h Handle, bt object.BodyType) {
	if body := b.bodies[h]; body != nil {
		body.cold.BodyType = bt
		if bt != object.Dynamic {
			body.linvel = geom.Vec3{}
			body.angvel = geom.Vec3{}
		}
	}
}

func (b *Basic) Warm(h Handle, timestamp uint64) (object.Warm, bool) {
	body := b.bodies[h]
	if body == nil {
		return object.Warm{}, false
	}
	return object.Warm{
		Position:  body.pos,
		LinVel:    body.linvel,
		AngVel:    body.angvel,
		Timestamp: timestamp,
	}, true
}

func (b *Basic) BodyType(h Handle) object.BodyType {
	if body := b.bodies[h]; body != nil {
		return body.cold.BodyType
	}
	return ""
}

func (b *Basic) BoundingSphere(h Handle) (geom.Vec3, float64) {
	if body := b.bodies[h]; body != nil {
		return body.pos, body.radius
	}
	return geom.Vec3{}, 0
}

func (b *Basic) WatchRadius(h Handle) float64 {
	if body := b.bodies[h]; body != nil {
		return body.watchRadius
	}
	return 0
}

func (b *Basic) Aabb(h Handle) geom.Aabb {
	body := b.bodies[h]
	if body == nil {
		return geom.Aabb{}
	}
	return geom.AabbFromSphere(body.pos, body.radius)
}

func (b *Basic) Handles() []Handle {
	out := make([]Handle, 0, len(b.bodies))
	for h := range b.bodies {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (b *Basic) ContactPairs() [][2]Handle {
	handles := b.Handles()
	var out [][2]Handle
	for i := 0; i < len(handles); i++ {
		bi := b.bodies[handles[i]]
		for j := i + 1; j < len(handles); j++ {
			bj := b.bodies[handles[j]]
			if bi.cold.BodyType == object.Fixed && bj.cold.BodyType == object.Fixed {
				continue
			}
			if bi.pos.Sub(bj.pos).Length() <= bi.radius+bj.radius {
				out = append(out, [2]Handle{handles[i], handles[j]})
			}
		}
	}
	return out
}

func (b *Basic) Joints() []JointRef {
	out := make([]JointRef, len(b.joints))
	copy(out, b.joints)
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}
