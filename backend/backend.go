// Package backend defines the boundary between the motion controller and a
// rigid-body physics engine. The controller only ever talks to the narrow
// Backend interface; one concrete implementation exists per engine.
package backend

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyHandle identifies a rigid body owned by the host's physics world. The
// controller never owns bodies, it only references them within a tick.
type BodyHandle uint64

// NoBody is the zero handle. It never refers to a live body.
const NoBody BodyHandle = 0

// MassProperties describes a body's mass and rotational inertia.
type MassProperties struct {
	Mass    float64
	Inertia float64
}

// GroundHit is the nearest blocking surface found by a downward cast.
type GroundHit struct {
	// Body is the handle of the hit body, or NoBody for static geometry.
	Body BodyHandle
	// Distance from the cast origin to the hit, along the cast direction.
	Distance float64
	// Point is the world-space contact point.
	Point mgl64.Vec3
	// Normal is the surface normal at the contact point.
	Normal mgl64.Vec3
	// Velocity is the hit body's linear velocity at the contact point,
	// including the contribution of its angular velocity. Zero for static
	// geometry. Lets the controller stand on moving platforms.
	Velocity mgl64.Vec3
	// AngularVelocity of the hit body, zero for static geometry.
	AngularVelocity mgl64.Vec3
	// Ghost marks a pass-through surface (a one-way platform the physics
	// engine does not collide the character with). Adapters tag these so
	// the controller can decide whether to stand on them or fall through.
	Ghost bool
}

// Backend is the capability surface a physics engine adapter must provide.
// Every call refers to bodies previously registered with the adapter; a
// handle that no longer resolves reports ErrMissingBody rather than a
// default value.
type Backend interface {
	// MassProperties reports the body's mass and inertia.
	MassProperties(body BodyHandle) (MassProperties, error)

	// Position reports the body's world-space position.
	Position(body BodyHandle) (mgl64.Vec3, error)

	// Velocity reports the body's linear and angular velocity.
	Velocity(body BodyHandle) (linear, angular mgl64.Vec3, err error)

	// Gravity reports the world's gravity vector.
	Gravity() mgl64.Vec3

	// CastRay finds the nearest blocking surface along direction from
	// origin, ignoring the excluded body's own colliders. A miss is a nil
	// hit with a nil error. A zero or non-finite direction, or a
	// non-positive maxDistance, reports ErrDegenerateCast.
	CastRay(origin, direction mgl64.Vec3, maxDistance float64, exclude BodyHandle) (*GroundHit, error)

	// SetVelocity overwrites the body's linear and angular velocity. The
	// controller calls this at most once per body per tick.
	SetVelocity(body BodyHandle, linear, angular mgl64.Vec3) error

	// ApplyImpulse applies a linear impulse at the body's center of mass.
	ApplyImpulse(body BodyHandle, impulse mgl64.Vec3) error
}

// ErrMissingBody reports a handle that no longer resolves to a live body.
var ErrMissingBody = errors.New("backend: missing body")

// ErrDegenerateCast reports a ray cast with a zero or non-finite direction
// or a non-positive range.
var ErrDegenerateCast = errors.New("backend: degenerate cast")
