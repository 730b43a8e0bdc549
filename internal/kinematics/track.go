// Package kinematics evaluates scripted motion tracks for kinematic bodies.
package kinematics

import (
	"math"

	"physgrid.dev/internal/geom"
)

// Keyframe pins a value at a point in physical time (seconds).
type Keyframe struct {
	T     float64   `json:"t"`
	Value geom.Vec3 `json:"value"`
}

// Track is a piecewise-linear curve over keyframes sorted by time.
type Track struct {
	Keyframes []Keyframe `json:"keyframes"`
	Loop      bool       `json:"loop,omitempty"`
}

// Eval samples the track at time at. Before the first keyframe the first
// value is held; after the last, the last value is held unless the track
// loops, in which case time wraps over the track duration.
func (t *Track) Eval(at float64) geom.Vec3 {
	kfs := t.Keyframes
	if len(kfs) == 0 {
		return geom.Vec3{}
	}
	if len(kfs) == 1 {
		return kfs[0].Value
	}

	start := kfs[0].T
	end := kfs[len(kfs)-1].T
	if t.Loop && end > start {
		at = start + math.Mod(at-start, end-start)
		if at < start {
			at += end - start
		}
	}
	if at <= start {
		return kfs[0].Value
	}
	if at >= end {
		return kfs[len(kfs)-1].Value
	}

	for i := 1; i < len(kfs); i++ {
		if at < kfs[i].T {
			prev, next := kfs[i-1], kfs[i]
			span := next.T - prev.T
			if span <= 0 {
				return next.Value
			}
			return geom.Lerp(prev.Value, next.Value, (at-prev.T)/span)
		}
	}
	return kfs[len(kfs)-1].Value
}

// Animations is the optional pair of motion tracks carried by a body's
// cold data. A nil track means that channel is not animated.
type Animations struct {
	Linear  *Track `json:"linear,omitempty"`
	Angular *Track `json:"angular,omitempty"`
}

func (a Animations) HasAny() bool {
	return a.Linear != nil || a.Angular != nil
}
