package stride

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/stride/backend"
	"github.com/milk9111/stride/mathx"
)

// DashName identifies the built-in dash action.
const DashName = "dash"

// Dash phases, exposed through Action.Phase.
const (
	DashPhaseDashing = "dashing"
	DashPhaseBraking = "braking"
)

// Dash drives the character at a fixed speed along a direction frozen at
// trigger time, ignoring the basis's horizontal tracking, until the
// configured distance is covered or the duration ceiling is hit. Gravity is
// suspended for the duration: the dash owns the full velocity vector. With
// a brake configured, the dash then decelerates back into the basis's
// output instead of cutting to it.
type Dash struct {
	cfg      DashConfig
	dir      mgl64.Vec3
	vel      mgl64.Vec3
	traveled float64
	elapsed  float64
	phase    string
}

// NewDash creates a dash along the given direction. The direction is
// frozen immediately, the way a dash should keep going the way it was
// aimed even if the stick moves mid-dash.
func NewDash(cfg Config, direction mgl64.Vec3) *Dash {
	return &Dash{cfg: cfg.Dash, dir: mathx.NormalizeOrZero(direction)}
}

// Name implements Action.
func (d *Dash) Name() string { return DashName }

// FeedWindow implements Action. A dash either starts on its trigger tick
// or not at all.
func (d *Dash) FeedWindow() float64 { return 0 }

// Phase implements Action.
func (d *Dash) Phase() string { return d.phase }

// CanStart implements Action: the dash needs a usable direction, and
// ground contact unless configured for air dashes.
func (d *Dash) CanStart(snap *backend.Snapshot, basis Basis) bool {
	if d.dir.Len() == 0 {
		return false
	}
	return d.cfg.AllowInAir || basis.Grounded()
}

// Apply implements Action. The tick on which the distance is covered still
// drives at full dash speed, so the dash displaces exactly Distance.
func (d *Dash) Apply(snap *backend.Snapshot, basis Basis, basisCmd Command, fed bool) (Command, bool, error) {
	d.elapsed += snap.DT
	if d.cfg.MaxDuration > 0 && d.elapsed > d.cfg.MaxDuration {
		return basisCmd, true, nil
	}

	if d.phase == DashPhaseBraking {
		d.vel = mathx.MoveTowardVec(d.vel, basisCmd.Velocity, d.cfg.Brake*snap.DT)
		if d.vel == basisCmd.Velocity {
			return basisCmd, true, nil
		}
		cmd := basisCmd
		cmd.Velocity = d.vel
		return cmd, false, nil
	}

	d.phase = DashPhaseDashing
	d.traveled += d.cfg.Speed * snap.DT
	d.vel = d.dir.Mul(d.cfg.Speed)

	cmd := basisCmd
	cmd.Velocity = d.vel
	if d.traveled >= d.cfg.Distance {
		if d.cfg.Brake <= 0 {
			return cmd, true, nil
		}
		d.phase = DashPhaseBraking
	}
	return cmd, false, nil
}
