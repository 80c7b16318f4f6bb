package stride

import (
	"fmt"
	"math"
)

// Config holds the per-character tuning parameters. It is supplied by the
// host, validated once, and read by basis/action code every tick. Nothing in
// the controller mutates it.
type Config struct {
	// FloatHeight is the target hover height above detected ground.
	FloatHeight float64
	// CastSlack extends the ground cast beyond FloatHeight so the
	// controller can tell "slightly too high" apart from "airborne".
	CastSlack float64
	// SpringStrength scales the vertical correction per unit of height
	// error, in 1/s.
	SpringStrength float64
	// SpringDamping scales the counteracting term on vertical speed.
	SpringDamping float64
	// Acceleration caps the horizontal velocity change per second while
	// grounded.
	Acceleration float64
	// AirAcceleration caps the horizontal velocity change per second while
	// airborne.
	AirAcceleration float64
	// MaxSlope is the steepest walkable surface angle, in radians from the
	// up direction. Steeper hits are treated as no ground at all.
	MaxSlope float64
	// TurnSpeed caps the facing rotation rate, in radians per second.
	TurnSpeed float64
	// CoyoteTime is the grace window after leaving the ground during which
	// a jump trigger is still honored as if grounded, in seconds.
	CoyoteTime float64
	// FreeFallExtraGravity is added on top of world gravity while falling
	// with no action active, for a snappier descent.
	FreeFallExtraGravity float64

	Jump   JumpConfig
	Crouch CrouchConfig
	Dash   DashConfig
}

// JumpConfig tunes the built-in jump action.
type JumpConfig struct {
	// Speed is the initial upward speed on takeoff.
	Speed float64
	// BufferTime is how long an early trigger waits for the ground, in
	// seconds.
	BufferTime float64
	// HoldExtend is extra upward acceleration applied while the trigger
	// stays held during the ascent, for taller held jumps.
	HoldExtend float64
	// MaxHold caps how long HoldExtend applies, in seconds.
	MaxHold float64
	// MaxDuration is a ceiling on the active phase, in seconds. Zero means
	// no ceiling.
	MaxDuration float64
	// FallExtraGravity is added past the apex to shorten the hang.
	FallExtraGravity float64
	// ShortenExtraGravity is added while ascending once the trigger is
	// released, cutting the jump short.
	ShortenExtraGravity float64
}

// CrouchConfig tunes the built-in crouch action.
type CrouchConfig struct {
	// HeightOffset is added to the float height while crouched. Negative
	// values sink the character; at or below -FloatHeight the spring is
	// fully suspended and the character rests on the ground.
	HeightOffset float64
	// SpeedFactor scales the basis's horizontal output while crouched.
	SpeedFactor float64
	// SinkTime is how long the full sink to HeightOffset takes, in
	// seconds. Zero sinks instantly.
	SinkTime float64
	// RiseTime is how long the full rise back takes, in seconds. Zero
	// rises instantly.
	RiseTime float64
}

// DashConfig tunes the built-in dash action.
type DashConfig struct {
	// Speed is the fixed dash speed.
	Speed float64
	// Distance is the total displacement covered by one dash.
	Distance float64
	// Brake is the deceleration applied after Distance is covered, easing
	// the dash velocity back into the basis's output. Zero ends the dash
	// at full speed.
	Brake float64
	// MaxDuration is a ceiling on the dash, in seconds. Zero means the
	// dash only ends by covering Distance (and braking, if any).
	MaxDuration float64
	// AllowInAir permits dashing without ground contact.
	AllowInAir bool
}

// InvalidConfigError reports a config field that failed validation. Bad
// values are rejected outright, never clamped, so tuning mistakes stay
// visible.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("stride: invalid config: %s %s", e.Field, e.Reason)
}

// Validate checks the tuning parameters, returning an InvalidConfigError
// for the first offending field.
func (c *Config) Validate() error {
	checks := []struct {
		field  string
		ok     bool
		reason string
	}{
		{"float_height", c.FloatHeight > 0 && isFinite(c.FloatHeight), "must be positive"},
		{"cast_slack", c.CastSlack >= 0 && isFinite(c.CastSlack), "must not be negative"},
		{"spring_strength", c.SpringStrength > 0 && isFinite(c.SpringStrength), "must be positive"},
		{"spring_damping", c.SpringDamping >= 0 && isFinite(c.SpringDamping), "must not be negative"},
		{"acceleration", c.Acceleration > 0 && isFinite(c.Acceleration), "must be positive"},
		{"air_acceleration", c.AirAcceleration >= 0 && isFinite(c.AirAcceleration), "must not be negative"},
		{"max_slope", c.MaxSlope > 0 && c.MaxSlope <= math.Pi/2, "must be in (0, pi/2]"},
		{"turn_speed", c.TurnSpeed >= 0 && isFinite(c.TurnSpeed), "must not be negative"},
		{"coyote_time", c.CoyoteTime >= 0 && isFinite(c.CoyoteTime), "must not be negative"},
		{"free_fall_extra_gravity", c.FreeFallExtraGravity >= 0 && isFinite(c.FreeFallExtraGravity), "must not be negative"},
		{"jump.speed", c.Jump.Speed >= 0 && isFinite(c.Jump.Speed), "must not be negative"},
		{"jump.buffer_time", c.Jump.BufferTime >= 0 && isFinite(c.Jump.BufferTime), "must not be negative"},
		{"jump.hold_extend", c.Jump.HoldExtend >= 0 && isFinite(c.Jump.HoldExtend), "must not be negative"},
		{"jump.max_hold", c.Jump.MaxHold >= 0 && isFinite(c.Jump.MaxHold), "must not be negative"},
		{"jump.max_duration", c.Jump.MaxDuration >= 0 && isFinite(c.Jump.MaxDuration), "must not be negative"},
		{"jump.fall_extra_gravity", c.Jump.FallExtraGravity >= 0 && isFinite(c.Jump.FallExtraGravity), "must not be negative"},
		{"jump.shorten_extra_gravity", c.Jump.ShortenExtraGravity >= 0 && isFinite(c.Jump.ShortenExtraGravity), "must not be negative"},
		{"crouch.height_offset", c.Crouch.HeightOffset <= 0 && isFinite(c.Crouch.HeightOffset), "must not be positive"},
		{"crouch.speed_factor", c.Crouch.SpeedFactor >= 0 && c.Crouch.SpeedFactor <= 1, "must be in [0, 1]"},
		{"crouch.sink_time", c.Crouch.SinkTime >= 0 && isFinite(c.Crouch.SinkTime), "must not be negative"},
		{"crouch.rise_time", c.Crouch.RiseTime >= 0 && isFinite(c.Crouch.RiseTime), "must not be negative"},
		{"dash.speed", c.Dash.Speed >= 0 && isFinite(c.Dash.Speed), "must not be negative"},
		{"dash.distance", c.Dash.Distance >= 0 && isFinite(c.Dash.Distance), "must not be negative"},
		{"dash.brake", c.Dash.Brake >= 0 && isFinite(c.Dash.Brake), "must not be negative"},
		{"dash.max_duration", c.Dash.MaxDuration >= 0 && isFinite(c.Dash.MaxDuration), "must not be negative"},
	}
	for _, check := range checks {
		if !check.ok {
			return &InvalidConfigError{Field: check.field, Reason: check.reason}
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
