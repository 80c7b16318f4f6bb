// Package stride is a physics-backend-agnostic character motion controller.
// A Controller composes one continuous locomotion strategy (a Basis, by
// default the floating walk) with discrete, time-bounded Actions (jump,
// crouch, dash) and drives a rigid body through the narrow backend.Backend
// interface, so the same control logic runs unmodified on any physics
// engine an adapter exists for.
package stride

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/stride/backend"
)

// Intent is the host's per-tick movement request.
type Intent struct {
	// DesiredVelocity is the wanted horizontal velocity, world-space.
	DesiredVelocity mgl64.Vec3
	// DesiredForward is the wanted facing direction. Zero keeps the
	// current facing.
	DesiredForward mgl64.Vec3
}

// Command is the final motion output of one control tick. The controller
// hands it to the backend exactly once per tick.
type Command struct {
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

// Basis is a continuous locomotion strategy. Exactly one basis is installed
// in a controller at a time; it runs every tick and produces the baseline
// command that actions may blend with or override.
//
// A basis instance owns its own mutable state. Installing a different
// basis variant discards the old instance wholesale; no state migrates
// across variant switches.
type Basis interface {
	// Name identifies the basis variant. Controllers treat two bases with
	// the same name as the same variant.
	Name() string

	// Apply computes the baseline command for one tick.
	Apply(snap *backend.Snapshot, intent Intent) (Command, error)

	// Grounded reports whether the last Apply found walkable ground.
	Grounded() bool

	// AirTime reports how long the basis has been airborne, in seconds.
	// Zero while grounded.
	AirTime() float64
}

// FloatHeightModulator is implemented by bases whose hover height can be
// adjusted by an action without reinstalling the basis. The crouch action
// uses it to sink the character.
type FloatHeightModulator interface {
	// ModulateFloatHeight sets an offset added to the configured float
	// height. The offset persists until changed again.
	ModulateFloatHeight(offset float64)
}
