package stride

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/stride/backend"
	"github.com/milk9111/stride/mathx"
)

// Controller is the per-character motion state machine. It assembles a
// sensor snapshot from the backend, runs the installed basis, advances the
// action queue, and applies the combined velocity command back through the
// backend — exactly once per tick.
//
// A controller is single-threaded: the host invokes Tick at most once per
// simulation step, and distinct characters use distinct controllers, so no
// locking exists here.
type Controller struct {
	be   backend.Backend
	body backend.BodyHandle
	cfg  Config

	basis     Basis
	requested Basis

	queue   []*queuedAction
	active  *queuedAction
	nextSeq uint64

	groundFilter func(*backend.GroundHit) *backend.GroundHit

	intent Intent
	inert  bool
}

// NewController creates a controller for one rigid body. The config is
// validated and the handle is checked against the backend, so a dead handle
// or a bad tuning value fails here rather than mid-simulation.
func NewController(be backend.Backend, body backend.BodyHandle, cfg Config) (*Controller, error) {
	if be == nil {
		return nil, errors.New("stride: nil backend")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := be.MassProperties(body); err != nil {
		return nil, fmt.Errorf("stride: body %d: %w", body, err)
	}
	return &Controller{be: be, body: body, cfg: cfg}, nil
}

// SetBasis requests a basis for the next tick. A basis with a different
// name than the installed one replaces it wholesale, discarding all of the
// old instance's state; requesting the same variant again is a no-op that
// keeps the installed instance and its state.
func (c *Controller) SetBasis(b Basis) {
	if b == nil {
		return
	}
	c.requested = b
}

// SetIntent stores the host's movement request for the next tick.
func (c *Controller) SetIntent(intent Intent) {
	c.intent = intent
}

// SetGroundFilter installs a hook that may veto or rewrite the ground hit
// before the basis sees it. A nil return from the filter reads as airborne.
// The FallThroughHelper provides a ready-made filter for pass-through
// platforms; nil removes the hook.
func (c *Controller) SetGroundFilter(filter func(*backend.GroundHit) *backend.GroundHit) {
	c.groundFilter = filter
}

// Trigger enqueues an action. Triggers are fire-and-forget: the action
// waits in the queue until its precondition holds or its feed window
// expires. Re-triggering an action that is already queued or active
// refreshes it ("feeds" it) instead of queueing a duplicate — held buttons
// feed their action every tick.
func (c *Controller) Trigger(a Action) {
	if a == nil {
		return
	}
	if c.active != nil && c.active.action.Name() == a.Name() {
		c.active.fed = true
		return
	}
	for _, q := range c.queue {
		if q.action.Name() == a.Name() {
			q.age = 0
			q.fed = true
			return
		}
	}
	c.nextSeq++
	c.queue = append(c.queue, &queuedAction{action: a, seq: c.nextSeq, fed: true})
}

// Tick runs one full control step. Before a basis is installed the
// controller is in its initial no-basis state and computes no motion. After
// a backend.ErrMissingBody the controller goes inert and every later Tick
// is a no-op until Reset is called.
func (c *Controller) Tick(dt float64) error {
	if c.inert {
		return nil
	}

	if c.requested != nil {
		if c.basis == nil || c.basis.Name() != c.requested.Name() {
			c.basis = c.requested
		}
		c.requested = nil
	}
	if c.basis == nil {
		return nil
	}

	snap, err := c.sense(dt)
	if err != nil {
		if errors.Is(err, backend.ErrMissingBody) {
			c.inert = true
		}
		return err
	}

	basisCmd, err := c.basis.Apply(snap, c.intent)
	if err != nil {
		return fmt.Errorf("stride: basis %s: %w", c.basis.Name(), err)
	}

	c.advanceQueue(snap, dt)

	cmd := basisCmd
	if c.active != nil {
		actionCmd, done, err := c.active.action.Apply(snap, c.basis, basisCmd, c.active.fed)
		if err != nil {
			return fmt.Errorf("stride: action %s: %w", c.active.action.Name(), err)
		}
		cmd = actionCmd
		if done {
			c.active = nil
		}
	}

	if err := c.be.SetVelocity(c.body, cmd.Velocity, cmd.AngularVelocity); err != nil {
		if errors.Is(err, backend.ErrMissingBody) {
			c.inert = true
		}
		return fmt.Errorf("stride: apply: %w", err)
	}

	c.clearFeeds()
	return nil
}

// sense assembles the per-tick snapshot from the backend. A degenerate
// cast is logged and treated as no ground; a missing body propagates.
func (c *Controller) sense(dt float64) (*backend.Snapshot, error) {
	pos, err := c.be.Position(c.body)
	if err != nil {
		return nil, fmt.Errorf("stride: sense position: %w", err)
	}
	vel, ang, err := c.be.Velocity(c.body)
	if err != nil {
		return nil, fmt.Errorf("stride: sense velocity: %w", err)
	}

	gravity := c.be.Gravity()
	up := mathx.NormalizeOrZero(gravity).Mul(-1)
	if up.Len() == 0 {
		up = mgl64.Vec3{0, 1, 0}
	}

	castRange := c.cfg.FloatHeight + c.cfg.CastSlack
	hit, err := c.be.CastRay(pos, up.Mul(-1), castRange, c.body)
	if err != nil {
		if errors.Is(err, backend.ErrDegenerateCast) {
			log.Printf("stride: Controller: degenerate ground cast for body %d: %v", c.body, err)
			hit = nil
		} else {
			return nil, fmt.Errorf("stride: sense ground: %w", err)
		}
	}

	// the filter sees misses too, so stateful filters can track what the
	// character passed through
	if c.groundFilter != nil {
		hit = c.groundFilter(hit)
	}

	return &backend.Snapshot{
		Hit:             hit,
		Position:        pos,
		Velocity:        vel,
		AngularVelocity: ang,
		Gravity:         gravity,
		Up:              up,
		DT:              dt,
	}, nil
}

// advanceQueue ages queued actions, drops expired ones, and keeps the
// single-active invariant: the active action is always the earliest-queued
// action whose precondition currently holds. A blocked entry (say a
// buffered jump waiting for landing) does not starve later triggers, but
// the moment its precondition comes true it preempts any later-queued
// action that got the slot in the meantime, cancelling it outright rather
// than running both.
func (c *Controller) advanceQueue(snap *backend.Snapshot, dt float64) {
	kept := c.queue[:0]
	for _, q := range c.queue {
		q.age += dt
		if q.expired() {
			continue
		}
		kept = append(kept, q)
	}
	c.queue = kept

	for i, q := range c.queue {
		if c.active != nil && c.active.seq < q.seq {
			break
		}
		if !q.action.CanStart(snap, c.basis) {
			continue
		}
		if c.active != nil {
			if canceler, ok := c.active.action.(Canceler); ok {
				canceler.Cancel(c.basis)
			}
		}
		c.active = q
		c.queue = append(c.queue[:i], c.queue[i+1:]...)
		break
	}
}

func (c *Controller) clearFeeds() {
	if c.active != nil {
		c.active.fed = false
	}
	for _, q := range c.queue {
		q.fed = false
	}
}

// Knockback applies an external linear impulse to the controlled body,
// outside the per-tick command. Hosts use it for damage shoves and similar
// one-off pushes that should respect the body's mass.
func (c *Controller) Knockback(impulse mgl64.Vec3) error {
	if c.inert {
		return nil
	}
	if err := c.be.ApplyImpulse(c.body, impulse); err != nil {
		if errors.Is(err, backend.ErrMissingBody) {
			c.inert = true
		}
		return fmt.Errorf("stride: knockback: %w", err)
	}
	return nil
}

// Mass reports the controlled body's mass properties.
func (c *Controller) Mass() (backend.MassProperties, error) {
	return c.be.MassProperties(c.body)
}

// Reset points the controller at a (possibly new) body and clears the
// inert flag, the queue, and the installed basis. The next SetBasis +
// Tick starts from the initial no-basis state.
func (c *Controller) Reset(body backend.BodyHandle) {
	c.body = body
	c.inert = false
	c.basis = nil
	c.requested = nil
	c.queue = nil
	c.active = nil
}

// Body returns the controlled body's handle.
func (c *Controller) Body() backend.BodyHandle { return c.body }

// Inert reports whether the controller shut down after losing its body.
func (c *Controller) Inert() bool { return c.inert }

// Grounded reports whether the installed basis found walkable ground on
// the last tick.
func (c *Controller) Grounded() bool {
	return c.basis != nil && c.basis.Grounded()
}

// AirTime reports the installed basis's current airborne duration.
func (c *Controller) AirTime() float64 {
	if c.basis == nil {
		return 0
	}
	return c.basis.AirTime()
}

// BasisName returns the installed basis variant name, empty in the
// initial no-basis state.
func (c *Controller) BasisName() string {
	if c.basis == nil {
		return ""
	}
	return c.basis.Name()
}

// ActiveAction returns the name of the currently active action, or empty.
func (c *Controller) ActiveAction() string {
	if c.active == nil {
		return ""
	}
	return c.active.action.Name()
}

// ActionPhase returns the active action's phase, or empty.
func (c *Controller) ActionPhase() string {
	if c.active == nil {
		return ""
	}
	return c.active.action.Phase()
}

// ActionStatus reports the lifecycle stage of the named action:
// StatusActive if it is the active action, StatusQueued if it waits in the
// queue, StatusFinished otherwise.
func (c *Controller) ActionStatus(name string) ActionStatus {
	if c.active != nil && c.active.action.Name() == name {
		return StatusActive
	}
	for _, q := range c.queue {
		if q.action.Name() == name {
			return StatusQueued
		}
	}
	return StatusFinished
}

// QueuedActions returns the names of the waiting actions in queue order.
func (c *Controller) QueuedActions() []string {
	names := make([]string, 0, len(c.queue))
	for _, q := range c.queue {
		names = append(names, q.action.Name())
	}
	return names
}

// Config returns the controller's tuning parameters.
func (c *Controller) Config() Config { return c.cfg }

// SetConfig replaces the tuning parameters after validating them. The
// installed basis keeps its old config until reinstalled; actions pick the
// new values up on their next trigger.
func (c *Controller) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}
