package backend

import "github.com/go-gl/mathgl/mgl64"

// Snapshot is the read-only sensor bundle assembled once per tick. It is
// never persisted across ticks; the controller rebuilds it from the Backend
// at the start of every compute pass.
type Snapshot struct {
	// Hit is the ground proximity result, nil when nothing was found in
	// range (or the cast was degenerate).
	Hit *GroundHit
	// Position of the controlled body.
	Position mgl64.Vec3
	// Velocity is the controlled body's linear velocity.
	Velocity mgl64.Vec3
	// AngularVelocity is the controlled body's angular velocity.
	AngularVelocity mgl64.Vec3
	// Gravity is the world gravity vector.
	Gravity mgl64.Vec3
	// Up is the unit vector opposing gravity.
	Up mgl64.Vec3
	// DT is the tick duration in seconds.
	DT float64
}

// VerticalSpeed returns the velocity component along Up, positive upward.
func (s *Snapshot) VerticalSpeed() float64 {
	return s.Velocity.Dot(s.Up)
}
