// Package chipmunk adapts a Chipmunk (jakecoffman/cp) space to the
// backend.Backend interface. Chipmunk is 2D: world X/Y map straight onto
// cp X/Y and the Z component is ignored on the way in and zero on the way
// out, except angular velocity which lives on Z.
package chipmunk

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/stride/backend"
)

// Backend implements backend.Backend over a Chipmunk space. The host owns
// the space and steps it; the adapter only registers bodies, queries, and
// writes velocities.
type Backend struct {
	space   *cp.Space
	gravity mgl64.Vec3

	bodies map[backend.BodyHandle]*cp.Body
	ghosts map[*cp.Shape]bool
	next   backend.BodyHandle
}

// New creates an adapter over an existing space. gravity must match the
// space's configured gravity; Chipmunk offers no getter, so the host
// passes the same vector it gave cp.Space.SetGravity.
func New(space *cp.Space, gravity mgl64.Vec3) *Backend {
	return &Backend{
		space:   space,
		gravity: gravity,
		bodies:  make(map[backend.BodyHandle]*cp.Body),
		ghosts:  make(map[*cp.Shape]bool),
	}
}

// Space returns the underlying Chipmunk space.
func (b *Backend) Space() *cp.Space {
	if b == nil {
		return nil
	}
	return b.space
}

// Register assigns a handle to a body already added to the space. The
// body's shapes must be attached before registering: each one's filter
// group is set to the handle so the body's own colliders never show up in
// its ground casts. Categories and masks the host configured are kept.
func (b *Backend) Register(body *cp.Body) backend.BodyHandle {
	b.next++
	handle := b.next
	b.bodies[handle] = body
	body.UserData = handle
	body.EachShape(func(shape *cp.Shape) {
		filter := shape.Filter
		filter.Group = uint(handle)
		shape.SetFilter(filter)
	})
	return handle
}

// MarkPassThrough tags a shape as a one-way platform. Ground casts that hit
// it report Ghost, letting a FallThroughHelper decide whether the character
// stands on it or drops through. The host still owns the collision side
// (cp collision handlers or filters that let the character pass bodily).
func (b *Backend) MarkPassThrough(shape *cp.Shape) {
	if shape == nil {
		return
	}
	b.ghosts[shape] = true
}

// Deregister drops a handle. Later calls with it report a missing body.
func (b *Backend) Deregister(handle backend.BodyHandle) {
	delete(b.bodies, handle)
}

func (b *Backend) lookup(handle backend.BodyHandle) (*cp.Body, error) {
	body, ok := b.bodies[handle]
	if !ok {
		return nil, fmt.Errorf("chipmunk: body %d: %w", handle, backend.ErrMissingBody)
	}
	return body, nil
}

// MassProperties implements backend.Backend.
func (b *Backend) MassProperties(handle backend.BodyHandle) (backend.MassProperties, error) {
	body, err := b.lookup(handle)
	if err != nil {
		return backend.MassProperties{}, err
	}
	return backend.MassProperties{Mass: body.Mass(), Inertia: body.Moment()}, nil
}

// Position implements backend.Backend.
func (b *Backend) Position(handle backend.BodyHandle) (mgl64.Vec3, error) {
	body, err := b.lookup(handle)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return fromCP(body.Position()), nil
}

// Velocity implements backend.Backend.
func (b *Backend) Velocity(handle backend.BodyHandle) (mgl64.Vec3, mgl64.Vec3, error) {
	body, err := b.lookup(handle)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, err
	}
	return fromCP(body.Velocity()), mgl64.Vec3{0, 0, body.AngularVelocity()}, nil
}

// Gravity implements backend.Backend.
func (b *Backend) Gravity() mgl64.Vec3 { return b.gravity }

// CastRay implements backend.Backend with a Chipmunk segment query,
// filtered by the excluded body's shape group.
func (b *Backend) CastRay(origin, direction mgl64.Vec3, maxDistance float64, exclude backend.BodyHandle) (*backend.GroundHit, error) {
	if maxDistance <= 0 || direction.Len() == 0 || !finiteVec(direction) || !finiteVec(origin) {
		return nil, fmt.Errorf("chipmunk: cast from %v along %v range %v: %w",
			origin, direction, maxDistance, backend.ErrDegenerateCast)
	}

	dir := direction.Mul(1 / direction.Len())
	start := toCP(origin)
	end := toCP(origin.Add(dir.Mul(maxDistance)))
	filter := cp.NewShapeFilter(uint(exclude), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)

	info := b.space.SegmentQueryFirst(start, end, 0, filter)
	if info.Shape == nil {
		return nil, nil
	}

	hit := &backend.GroundHit{
		Distance: info.Alpha * maxDistance,
		Point:    fromCP(info.Point),
		Normal:   fromCP(info.Normal),
		Ghost:    b.ghosts[info.Shape],
	}
	if body := info.Shape.Body(); body != nil {
		if handle, ok := body.UserData.(backend.BodyHandle); ok {
			hit.Body = handle
		}
		if body.GetType() != cp.BODY_STATIC {
			hit.Velocity = fromCP(body.VelocityAtWorldPoint(info.Point))
			hit.AngularVelocity = mgl64.Vec3{0, 0, body.AngularVelocity()}
		}
	}
	return hit, nil
}

// SetVelocity implements backend.Backend.
func (b *Backend) SetVelocity(handle backend.BodyHandle, linear, angular mgl64.Vec3) error {
	body, err := b.lookup(handle)
	if err != nil {
		return err
	}
	body.SetVelocityVector(toCP(linear))
	body.SetAngularVelocity(angular.Z())
	return nil
}

// ApplyImpulse implements backend.Backend, applying at the body's center
// of mass.
func (b *Backend) ApplyImpulse(handle backend.BodyHandle, impulse mgl64.Vec3) error {
	body, err := b.lookup(handle)
	if err != nil {
		return err
	}
	body.ApplyImpulseAtWorldPoint(toCP(impulse), body.Position())
	return nil
}

func toCP(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Y()}
}

func fromCP(v cp.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, 0}
}

func finiteVec(v mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}
