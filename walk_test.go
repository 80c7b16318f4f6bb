package stride

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/stride/backend"
)

func walkSnap(hit *backend.GroundHit, vel mgl64.Vec3, dt float64) *backend.Snapshot {
	return &backend.Snapshot{
		Hit:      hit,
		Position: mgl64.Vec3{0, 2, 0},
		Velocity: vel,
		Gravity:  mgl64.Vec3{0, -10, 0},
		Up:       mgl64.Vec3{0, 1, 0},
		DT:       dt,
	}
}

func TestFloatingWalkVerticalCorrection(t *testing.T) {
	const dt = 1.0 / 60

	cases := []struct {
		name     string
		distance float64
		want     func(t *testing.T, vy float64)
	}{
		{
			name:     "at_target_height_is_idempotent",
			distance: 1.0,
			want: func(t *testing.T, vy float64) {
				if vy != 0 {
					t.Fatalf("expected exactly zero vertical correction, got %v", vy)
				}
			},
		},
		{
			name:     "too_close_pushes_up",
			distance: 0.8,
			want: func(t *testing.T, vy float64) {
				if vy <= 0 {
					t.Fatalf("expected positive vertical correction, got %v", vy)
				}
			},
		},
		{
			name:     "too_far_pulls_down",
			distance: 1.2,
			want: func(t *testing.T, vy float64) {
				if vy >= 0 {
					t.Fatalf("expected negative vertical correction, got %v", vy)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fw := NewFloatingWalk(testConfig())
			cmd, err := fw.Apply(walkSnap(groundedHit(c.distance), mgl64.Vec3{}, dt), Intent{})
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if !fw.Grounded() {
				t.Fatalf("expected grounded")
			}
			c.want(t, cmd.Velocity.Y())
		})
	}
}

func TestFloatingWalkDownwardCorrectionNoFasterThanGravity(t *testing.T) {
	const dt = 1.0 / 60
	fw := NewFloatingWalk(testConfig())

	// Way above target height: the spring wants to yank the character
	// down hard, but must not beat free fall.
	cmd, err := fw.Apply(walkSnap(groundedHit(1.45), mgl64.Vec3{}, dt), Intent{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	gravityStep := -10.0 * dt
	if cmd.Velocity.Y() < gravityStep-1e-12 {
		t.Fatalf("correction %v outruns gravity step %v", cmd.Velocity.Y(), gravityStep)
	}
}

func TestFloatingWalkHorizontalConvergence(t *testing.T) {
	const dt = 1.0 / 60
	cfg := testConfig()
	fw := NewFloatingWalk(cfg)
	intent := Intent{DesiredVelocity: mgl64.Vec3{5, 0, 0}}

	maxStep := cfg.Acceleration * dt
	vel := mgl64.Vec3{}
	prev := 0.0
	for i := 0; i < 120; i++ {
		cmd, err := fw.Apply(walkSnap(groundedHit(1.0), vel, dt), intent)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		vx := cmd.Velocity.X()
		if vx < prev {
			t.Fatalf("tick %d: horizontal speed regressed %v -> %v", i, prev, vx)
		}
		if vx > 5+1e-9 {
			t.Fatalf("tick %d: overshot desired speed: %v", i, vx)
		}
		if vx-prev > maxStep+1e-9 {
			t.Fatalf("tick %d: per-tick change %v beyond acceleration cap %v", i, vx-prev, maxStep)
		}
		prev = vx
		vel = cmd.Velocity
	}
	if prev != 5 {
		t.Fatalf("expected convergence to 5, got %v", prev)
	}
}

func TestFloatingWalkSlopeRejection(t *testing.T) {
	const dt = 1.0 / 60
	// 60 degrees, past the 45 degree limit
	steep := &backend.GroundHit{
		Distance: 1.0,
		Normal:   mgl64.Vec3{math.Sin(math.Pi / 3), math.Cos(math.Pi / 3), 0},
	}
	vel := mgl64.Vec3{1, -2, 0}
	intent := Intent{DesiredVelocity: mgl64.Vec3{3, 0, 0}}

	onSteep := NewFloatingWalk(testConfig())
	steepCmd, err := onSteep.Apply(walkSnap(steep, vel, dt), intent)
	if err != nil {
		t.Fatalf("Apply steep: %v", err)
	}
	inAir := NewFloatingWalk(testConfig())
	airCmd, err := inAir.Apply(walkSnap(nil, vel, dt), intent)
	if err != nil {
		t.Fatalf("Apply airborne: %v", err)
	}

	if onSteep.Grounded() {
		t.Fatalf("steep hit must not count as ground")
	}
	if steepCmd != airCmd {
		t.Fatalf("steep hit handled differently from no hit: %+v vs %+v", steepCmd, airCmd)
	}
	if onSteep.AirTime() != inAir.AirTime() {
		t.Fatalf("air time differs: %v vs %v", onSteep.AirTime(), inAir.AirTime())
	}
}

func TestFloatingWalkRidesMovingPlatform(t *testing.T) {
	const dt = 1.0 / 60
	hit := groundedHit(1.0)
	hit.Body = 7
	hit.Velocity = mgl64.Vec3{2, 0, 0}

	fw := NewFloatingWalk(testConfig())
	// already moving with the platform, no intent
	cmd, err := fw.Apply(walkSnap(hit, mgl64.Vec3{2, 0, 0}, dt), Intent{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := cmd.Velocity.X(); got != 2 {
		t.Fatalf("expected platform velocity to carry through, got %v", got)
	}
	if fw.StandingOn() != 7 {
		t.Fatalf("expected to stand on body 7, got %v", fw.StandingOn())
	}
}

func TestFloatingWalkTurn(t *testing.T) {
	const dt = 1.0 / 60
	cfg := testConfig()
	fw := NewFloatingWalk(cfg)

	// first non-zero desired forward is adopted without a turn command
	cmd, err := fw.Apply(walkSnap(groundedHit(1.0), mgl64.Vec3{}, dt), Intent{DesiredForward: mgl64.Vec3{1, 0, 0}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cmd.AngularVelocity != (mgl64.Vec3{}) {
		t.Fatalf("adopting initial facing should not spin, got %v", cmd.AngularVelocity)
	}

	// asking for a quarter turn yields a capped angular rate about up
	cmd, err = fw.Apply(walkSnap(groundedHit(1.0), mgl64.Vec3{}, dt), Intent{DesiredForward: mgl64.Vec3{0, 0, 1}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	rate := cmd.AngularVelocity.Y()
	if math.Abs(rate) == 0 || math.Abs(rate) > cfg.TurnSpeed+1e-9 {
		t.Fatalf("turn rate %v outside (0, %v]", rate, cfg.TurnSpeed)
	}

	// facing converges after enough ticks
	for i := 0; i < 120; i++ {
		if _, err := fw.Apply(walkSnap(groundedHit(1.0), mgl64.Vec3{}, dt), Intent{DesiredForward: mgl64.Vec3{0, 0, 1}}); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if fw.Forward().Sub(mgl64.Vec3{0, 0, 1}).Len() > 1e-6 {
		t.Fatalf("facing did not converge: %v", fw.Forward())
	}
}
