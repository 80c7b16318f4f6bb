package mathx

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Lerp interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MoveToward steps v toward target by at most maxDelta, without overshoot.
func MoveToward(v, target float64, maxDelta float64) float64 {
	if math.Abs(target-v) <= maxDelta {
		return target
	}
	if target > v {
		return v + maxDelta
	}
	return v - maxDelta
}

// MoveTowardVec steps v toward target by at most maxDelta, without overshoot.
func MoveTowardVec(v, target mgl64.Vec3, maxDelta float64) mgl64.Vec3 {
	diff := target.Sub(v)
	dist := diff.Len()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return v.Add(diff.Mul(maxDelta / dist))
}

// ClampLength limits the length of v to maxLen.
func ClampLength(v mgl64.Vec3, maxLen float64) mgl64.Vec3 {
	l := v.Len()
	if l <= maxLen || l == 0 {
		return v
	}
	return v.Mul(maxLen / l)
}

// Project returns the component of v along the unit vector axis.
func Project(v, axis mgl64.Vec3) mgl64.Vec3 {
	return axis.Mul(v.Dot(axis))
}

// ProjectOnPlane removes the component of v along the unit plane normal.
func ProjectOnPlane(v, normal mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(Project(v, normal))
}

// NormalizeOrZero normalizes v, returning the zero vector for degenerate input.
func NormalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}

// AngleBetween returns the unsigned angle in radians between two vectors.
// Returns 0 if either vector is degenerate.
func AngleBetween(a, b mgl64.Vec3) float64 {
	la := a.Len()
	lb := b.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := Clamp(a.Dot(b)/(la*lb), -1, 1)
	return math.Acos(cos)
}

// RotateToward rotates the unit vector from toward the unit vector to by at
// most maxAngle radians around their shared plane, without overshoot.
func RotateToward(from, to mgl64.Vec3, maxAngle float64) mgl64.Vec3 {
	angle := AngleBetween(from, to)
	if angle <= maxAngle || angle == 0 {
		if to.Len() == 0 {
			return from
		}
		return NormalizeOrZero(to)
	}
	axis := from.Cross(to)
	if axis.Len() == 0 {
		// opposite vectors have no unique rotation plane, pick one
		axis = from.Cross(mgl64.Vec3{0, 1, 0})
		if axis.Len() == 0 {
			axis = from.Cross(mgl64.Vec3{1, 0, 0})
		}
	}
	axis = NormalizeOrZero(axis)
	q := mgl64.QuatRotate(maxAngle, axis)
	return NormalizeOrZero(q.Rotate(from))
}
