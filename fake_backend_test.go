package stride

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/stride/backend"
)

// fakeBackend is a scripted backend.Backend for controller tests. Tests
// set its fields to stage the world and read lastVel/setCalls to observe
// the applied command.
type fakeBackend struct {
	pos     mgl64.Vec3
	vel     mgl64.Vec3
	ang     mgl64.Vec3
	gravity mgl64.Vec3
	mass    backend.MassProperties
	hit     *backend.GroundHit
	castErr error
	missing bool

	setCalls int
	lastVel  mgl64.Vec3
	lastAng  mgl64.Vec3
	impulses []mgl64.Vec3
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		pos:     mgl64.Vec3{0, 2, 0},
		gravity: mgl64.Vec3{0, -10, 0},
		mass:    backend.MassProperties{Mass: 1, Inertia: 1},
	}
}

func (f *fakeBackend) check(body backend.BodyHandle) error {
	if f.missing {
		return fmt.Errorf("fake: body %d: %w", body, backend.ErrMissingBody)
	}
	return nil
}

func (f *fakeBackend) MassProperties(body backend.BodyHandle) (backend.MassProperties, error) {
	if err := f.check(body); err != nil {
		return backend.MassProperties{}, err
	}
	return f.mass, nil
}

func (f *fakeBackend) Position(body backend.BodyHandle) (mgl64.Vec3, error) {
	if err := f.check(body); err != nil {
		return mgl64.Vec3{}, err
	}
	return f.pos, nil
}

func (f *fakeBackend) Velocity(body backend.BodyHandle) (mgl64.Vec3, mgl64.Vec3, error) {
	if err := f.check(body); err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, err
	}
	return f.vel, f.ang, nil
}

func (f *fakeBackend) Gravity() mgl64.Vec3 { return f.gravity }

func (f *fakeBackend) CastRay(origin, direction mgl64.Vec3, maxDistance float64, exclude backend.BodyHandle) (*backend.GroundHit, error) {
	if f.castErr != nil {
		return nil, f.castErr
	}
	if f.hit != nil && f.hit.Distance > maxDistance {
		return nil, nil
	}
	return f.hit, nil
}

func (f *fakeBackend) SetVelocity(body backend.BodyHandle, linear, angular mgl64.Vec3) error {
	if err := f.check(body); err != nil {
		return err
	}
	f.setCalls++
	f.lastVel = linear
	f.lastAng = angular
	return nil
}

func (f *fakeBackend) ApplyImpulse(body backend.BodyHandle, impulse mgl64.Vec3) error {
	if err := f.check(body); err != nil {
		return err
	}
	f.impulses = append(f.impulses, impulse)
	return nil
}

// integrate feeds the last applied velocity back as the sensed velocity,
// with one step of gravity on top, approximating what a physics engine
// does between ticks.
func (f *fakeBackend) integrate(dt float64) {
	f.vel = f.lastVel.Add(f.gravity.Mul(dt))
}

func testConfig() Config {
	return Config{
		FloatHeight:     1.0,
		CastSlack:       0.5,
		SpringStrength:  10,
		SpringDamping:   1,
		Acceleration:    20,
		AirAcceleration: 5,
		MaxSlope:        0.785398163397448, // 45 degrees
		TurnSpeed:       3.14159265358979,
		CoyoteTime:      0.15,
		Jump: JumpConfig{
			Speed:      8,
			BufferTime: 0.2,
		},
		Crouch: CrouchConfig{
			HeightOffset: -0.6,
			SpeedFactor:  0.2,
			SinkTime:     0.15, // 0.2 per tick at dt=0.05
			RiseTime:     0.15,
		},
		Dash: DashConfig{
			Speed:    20,
			Distance: 4,
		},
	}
}

func groundedHit(distance float64) *backend.GroundHit {
	return &backend.GroundHit{
		Distance: distance,
		Normal:   mgl64.Vec3{0, 1, 0},
	}
}
