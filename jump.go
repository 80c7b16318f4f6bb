package stride

import (
	"github.com/milk9111/stride/backend"
	"github.com/milk9111/stride/mathx"
)

// JumpName identifies the built-in jump action.
const JumpName = "jump"

// Jump phases, exposed through Action.Phase.
const (
	JumpPhaseAscending = "ascending"
	JumpPhaseFalling   = "falling"
)

// Jump launches the character with a fixed initial upward speed, then
// manages the flight: a capped upward boost while the trigger stays held,
// extra gravity past the apex, extra gravity while ascending once the
// trigger is released (variable jump height), and completion on landing.
// Its entry precondition is ground contact or remaining coyote time;
// combined with its feed window this gives both coyote jumps and jump
// buffering.
type Jump struct {
	// AllowInAir skips the ground/coyote precondition entirely. Hosts set
	// it per trigger to implement double jumps, usually gated by an
	// AirActionsCounter.
	AllowInAir bool

	cfg    JumpConfig
	coyote float64

	phase   int
	elapsed float64
	held    float64
}

const (
	jumpPending = iota
	jumpAscending
	jumpFalling
)

// NewJump creates a jump action from the controller config.
func NewJump(cfg Config) *Jump {
	return &Jump{cfg: cfg.Jump, coyote: cfg.CoyoteTime}
}

// Name implements Action.
func (j *Jump) Name() string { return JumpName }

// FeedWindow implements Action. The jump buffer window is how long an
// early trigger waits for landing.
func (j *Jump) FeedWindow() float64 { return j.cfg.BufferTime }

// Phase implements Action.
func (j *Jump) Phase() string {
	switch j.phase {
	case jumpAscending:
		return JumpPhaseAscending
	case jumpFalling:
		return JumpPhaseFalling
	default:
		return ""
	}
}

// CanStart implements Action: the character must be grounded or within the
// coyote window, unless the trigger explicitly allows a midair jump.
func (j *Jump) CanStart(snap *backend.Snapshot, basis Basis) bool {
	if j.AllowInAir {
		return true
	}
	return basis.Grounded() || basis.AirTime() <= j.coyote
}

// Apply implements Action. The first active tick overrides the vertical
// velocity with the configured takeoff speed; later ticks keep the basis's
// horizontal tracking and steer only the vertical component.
func (j *Jump) Apply(snap *backend.Snapshot, basis Basis, basisCmd Command, fed bool) (Command, bool, error) {
	up := snap.Up
	j.elapsed += snap.DT

	var vertical float64
	switch j.phase {
	case jumpPending:
		vertical = j.cfg.Speed
		j.phase = jumpAscending
	case jumpAscending:
		vertical = snap.VerticalSpeed()
		if vertical <= 0 {
			j.phase = jumpFalling
			vertical -= j.cfg.FallExtraGravity * snap.DT
			break
		}
		if fed {
			if j.held < j.cfg.MaxHold {
				vertical += j.cfg.HoldExtend * snap.DT
			}
			j.held += snap.DT
		} else {
			vertical -= j.cfg.ShortenExtraGravity * snap.DT
		}
	case jumpFalling:
		if basis.Grounded() {
			return basisCmd, true, nil
		}
		vertical = snap.VerticalSpeed() - j.cfg.FallExtraGravity*snap.DT
	}

	if j.cfg.MaxDuration > 0 && j.elapsed > j.cfg.MaxDuration {
		return basisCmd, true, nil
	}

	cmd := basisCmd
	cmd.Velocity = mathx.ProjectOnPlane(basisCmd.Velocity, up).Add(up.Mul(vertical))
	return cmd, false, nil
}
