package stride

import (
	"math"

	"github.com/milk9111/stride/backend"
	"github.com/milk9111/stride/mathx"
)

// CrouchName identifies the built-in crouch action.
const CrouchName = "crouch"

// Crouch phases, exposed through Action.Phase.
const (
	CrouchPhaseSinking     = "sinking"
	CrouchPhaseMaintaining = "maintaining"
	CrouchPhaseRising      = "rising"
)

// Crouch lowers the character by shifting the basis's float height through
// the FloatHeightModulator hook and slows its horizontal output. It is a
// held action: the host keeps triggering it every tick the crouch button is
// down, and releasing it raises the character back before the action
// finishes. An offset at or below the negated float height suspends the
// spring entirely and lets the character rest on the ground.
type Crouch struct {
	cfg    CrouchConfig
	offset float64
	phase  string
}

// NewCrouch creates a crouch action from the controller config.
func NewCrouch(cfg Config) *Crouch {
	return &Crouch{cfg: cfg.Crouch, phase: CrouchPhaseSinking}
}

// Name implements Action.
func (c *Crouch) Name() string { return CrouchName }

// FeedWindow implements Action. Crouch activates as soon as it reaches the
// queue head; an unfed entry is dropped on the next expiry pass.
func (c *Crouch) FeedWindow() float64 { return 0 }

// Phase implements Action.
func (c *Crouch) Phase() string { return c.phase }

// CanStart implements Action: crouching needs ground to sink toward.
func (c *Crouch) CanStart(snap *backend.Snapshot, basis Basis) bool {
	return basis.Grounded()
}

// Apply implements Action. The height offset ramps toward the configured
// crouch depth over SinkTime while fed and back to zero over RiseTime when
// released; the action is done once fully risen.
func (c *Crouch) Apply(snap *backend.Snapshot, basis Basis, basisCmd Command, fed bool) (Command, bool, error) {
	if fed {
		c.offset = mathx.MoveToward(c.offset, c.cfg.HeightOffset, c.rampStep(c.cfg.SinkTime, snap.DT))
		if c.offset == c.cfg.HeightOffset {
			c.phase = CrouchPhaseMaintaining
		} else {
			c.phase = CrouchPhaseSinking
		}
	} else {
		c.offset = mathx.MoveToward(c.offset, 0, c.rampStep(c.cfg.RiseTime, snap.DT))
		c.phase = CrouchPhaseRising
	}

	if mod, ok := basis.(FloatHeightModulator); ok {
		mod.ModulateFloatHeight(c.offset)
	}

	done := !fed && c.offset == 0
	if done {
		if mod, ok := basis.(FloatHeightModulator); ok {
			mod.ModulateFloatHeight(0)
		}
		return basisCmd, true, nil
	}

	// Slow the walk while below full standing height. The final stretch of
	// rising moves at full speed, matching how characters feel responsive
	// coming out of a slide.
	cmd := basisCmd
	if c.phase != CrouchPhaseRising {
		up := snap.Up
		vertical := basisCmd.Velocity.Dot(up)
		horizontal := mathx.ProjectOnPlane(basisCmd.Velocity, up).Mul(c.cfg.SpeedFactor)
		cmd.Velocity = horizontal.Add(up.Mul(vertical))
	}
	return cmd, false, nil
}

// Cancel implements Canceler: a preempted crouch must not leave the basis
// sunk at the crouched height.
func (c *Crouch) Cancel(basis Basis) {
	c.offset = 0
	if mod, ok := basis.(FloatHeightModulator); ok {
		mod.ModulateFloatHeight(0)
	}
}

// rampStep converts a full-ramp duration into this tick's offset step.
// A zero duration ramps instantly.
func (c *Crouch) rampStep(total, dt float64) float64 {
	if total <= 0 {
		return math.Abs(c.cfg.HeightOffset)
	}
	return math.Abs(c.cfg.HeightOffset) / total * dt
}
