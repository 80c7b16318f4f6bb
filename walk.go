package stride

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/stride/backend"
	"github.com/milk9111/stride/mathx"
)

// FloatingWalkName identifies the floating-walk basis variant.
const FloatingWalkName = "floating_walk"

// FloatingWalk is the default basis. It hovers the character at the
// configured float height above detected ground with a spring-damper
// control law, tracks the desired horizontal velocity under an
// acceleration cap, and yaws toward the desired facing at a capped rate.
type FloatingWalk struct {
	cfg Config

	// mutable per-instance state, discarded on variant switch
	airTime      float64
	grounded     bool
	standingOn   backend.BodyHandle
	heightOffset float64
	forward      mgl64.Vec3
}

// NewFloatingWalk creates a floating-walk basis with fresh state.
func NewFloatingWalk(cfg Config) *FloatingWalk {
	return &FloatingWalk{cfg: cfg}
}

// Name implements Basis.
func (fw *FloatingWalk) Name() string { return FloatingWalkName }

// Grounded implements Basis.
func (fw *FloatingWalk) Grounded() bool { return fw.grounded }

// AirTime implements Basis.
func (fw *FloatingWalk) AirTime() float64 { return fw.airTime }

// StandingOn returns the handle of the body the character is standing on,
// or backend.NoBody when airborne or on static geometry.
func (fw *FloatingWalk) StandingOn() backend.BodyHandle { return fw.standingOn }

// ModulateFloatHeight implements FloatHeightModulator.
func (fw *FloatingWalk) ModulateFloatHeight(offset float64) {
	fw.heightOffset = offset
}

// Apply implements Basis.
func (fw *FloatingWalk) Apply(snap *backend.Snapshot, intent Intent) (Command, error) {
	hit := fw.walkableHit(snap)

	var cmd Command
	if hit == nil {
		cmd.Velocity = fw.airborneVelocity(snap, intent)
		fw.grounded = false
		fw.standingOn = backend.NoBody
		fw.airTime += snap.DT
	} else {
		cmd.Velocity = fw.groundedVelocity(snap, intent, hit)
		fw.grounded = true
		fw.standingOn = hit.Body
		fw.airTime = 0
	}

	cmd.AngularVelocity = fw.turn(snap, intent)
	return cmd, nil
}

// walkableHit returns the snapshot's ground hit, or nil when there is none
// or its surface is steeper than the configured max slope. A too-steep hit
// is treated identically to no hit at all, so the character cannot climb
// walls.
func (fw *FloatingWalk) walkableHit(snap *backend.Snapshot) *backend.GroundHit {
	hit := snap.Hit
	if hit == nil {
		return nil
	}
	if hit.Normal.Dot(snap.Up) < math.Cos(fw.cfg.MaxSlope) {
		return nil
	}
	return hit
}

// groundedVelocity runs the spring-damper float. All math happens relative
// to the ground body's velocity so the character rides moving platforms,
// and the horizontal and vertical components are driven independently so
// slopes do not bleed walking speed.
func (fw *FloatingWalk) groundedVelocity(snap *backend.Snapshot, intent Intent, hit *backend.GroundHit) mgl64.Vec3 {
	up := snap.Up
	relVel := snap.Velocity.Sub(hit.Velocity)
	vertical := relVel.Dot(up)
	horizontal := mathx.ProjectOnPlane(relVel, up)

	heightError := fw.floatHeight() - hit.Distance
	spring := fw.cfg.SpringStrength*heightError - fw.cfg.SpringDamping*vertical

	// Never push into the ground faster than free fall would. The spring
	// may slow a descent but must not accelerate one.
	gravityStep := snap.Gravity.Dot(up) * snap.DT
	if spring < vertical+gravityStep {
		spring = vertical + gravityStep
	}

	desired := mathx.ProjectOnPlane(intent.DesiredVelocity, up)
	horizontal = mathx.MoveTowardVec(horizontal, desired, fw.cfg.Acceleration*snap.DT)

	return hit.Velocity.Add(horizontal).Add(up.Mul(spring))
}

// airborneVelocity keeps tracking the desired horizontal velocity with the
// (usually weaker) air acceleration cap and leaves the vertical component
// to the engine's gravity, plus the configured extra while descending.
func (fw *FloatingWalk) airborneVelocity(snap *backend.Snapshot, intent Intent) mgl64.Vec3 {
	up := snap.Up
	vertical := snap.Velocity.Dot(up)
	horizontal := mathx.ProjectOnPlane(snap.Velocity, up)

	desired := mathx.ProjectOnPlane(intent.DesiredVelocity, up)
	horizontal = mathx.MoveTowardVec(horizontal, desired, fw.cfg.AirAcceleration*snap.DT)

	if vertical < 0 && fw.cfg.FreeFallExtraGravity > 0 {
		vertical -= fw.cfg.FreeFallExtraGravity * snap.DT
	}

	return horizontal.Add(up.Mul(vertical))
}

// turn yaws the tracked facing toward the desired forward at the capped
// rate and emits the matching angular velocity about the up axis.
func (fw *FloatingWalk) turn(snap *backend.Snapshot, intent Intent) mgl64.Vec3 {
	desired := mathx.NormalizeOrZero(mathx.ProjectOnPlane(intent.DesiredForward, snap.Up))
	if desired.Len() == 0 {
		return mgl64.Vec3{}
	}
	if fw.forward.Len() == 0 {
		fw.forward = desired
		return mgl64.Vec3{}
	}

	angle := math.Atan2(fw.forward.Cross(desired).Dot(snap.Up), fw.forward.Dot(desired))
	maxStep := fw.cfg.TurnSpeed * snap.DT
	step := mathx.Clamp(angle, -maxStep, maxStep)
	if step == 0 || snap.DT <= 0 {
		return mgl64.Vec3{}
	}

	fw.forward = mathx.RotateToward(fw.forward, desired, math.Abs(step))
	return snap.Up.Mul(step / snap.DT)
}

// Forward returns the basis's current facing direction, zero before the
// first non-zero desired forward.
func (fw *FloatingWalk) Forward() mgl64.Vec3 { return fw.forward }

func (fw *FloatingWalk) floatHeight() float64 {
	h := fw.cfg.FloatHeight + fw.heightOffset
	if h < 0 {
		return 0
	}
	return h
}
