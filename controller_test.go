package stride

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/stride/backend"
)

const testBody backend.BodyHandle = 1

// stubBasis is a fixed-output basis for controller plumbing tests.
type stubBasis struct {
	name     string
	grounded bool
	airTime  float64
	cmd      Command
}

func (s *stubBasis) Name() string     { return s.name }
func (s *stubBasis) Grounded() bool   { return s.grounded }
func (s *stubBasis) AirTime() float64 { return s.airTime }
func (s *stubBasis) Apply(snap *backend.Snapshot, intent Intent) (Command, error) {
	return s.cmd, nil
}

// stubAction activates when allowed and finishes after life ticks.
type stubAction struct {
	name   string
	can    bool
	window float64
	life   int
}

func (s *stubAction) Name() string        { return s.name }
func (s *stubAction) FeedWindow() float64 { return s.window }
func (s *stubAction) Phase() string       { return "" }
func (s *stubAction) CanStart(snap *backend.Snapshot, basis Basis) bool {
	return s.can
}
func (s *stubAction) Apply(snap *backend.Snapshot, basis Basis, basisCmd Command, fed bool) (Command, bool, error) {
	s.life--
	return basisCmd, s.life <= 0, nil
}

func newTestController(t *testing.T, f *fakeBackend) *Controller {
	t.Helper()
	c, err := NewController(f, testBody, testConfig())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

func TestNewControllerRejects(t *testing.T) {
	t.Run("invalid_config", func(t *testing.T) {
		cfg := testConfig()
		cfg.FloatHeight = -1
		_, err := NewController(newFakeBackend(), testBody, cfg)
		var invalid *InvalidConfigError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidConfigError, got %v", err)
		}
		if invalid.Field != "float_height" {
			t.Fatalf("expected float_height rejection, got %q", invalid.Field)
		}
	})

	t.Run("missing_body", func(t *testing.T) {
		f := newFakeBackend()
		f.missing = true
		if _, err := NewController(f, testBody, testConfig()); !errors.Is(err, backend.ErrMissingBody) {
			t.Fatalf("expected ErrMissingBody, got %v", err)
		}
	})

	t.Run("nil_backend", func(t *testing.T) {
		if _, err := NewController(nil, testBody, testConfig()); err == nil {
			t.Fatalf("expected error for nil backend")
		}
	})
}

func TestControllerNoBasisComputesNothing(t *testing.T) {
	f := newFakeBackend()
	c := newTestController(t, f)

	if err := c.Tick(1.0 / 60); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if f.setCalls != 0 {
		t.Fatalf("no-basis controller applied %d commands", f.setCalls)
	}
	if c.BasisName() != "" {
		t.Fatalf("expected empty basis name, got %q", c.BasisName())
	}
}

func TestControllerAppliesExactlyOncePerTick(t *testing.T) {
	f := newFakeBackend()
	f.hit = groundedHit(1.0)
	c := newTestController(t, f)
	c.SetBasis(NewFloatingWalk(testConfig()))

	for i := 1; i <= 5; i++ {
		if err := c.Tick(1.0 / 60); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if f.setCalls != i {
			t.Fatalf("after %d ticks backend saw %d applies", i, f.setCalls)
		}
	}
}

func TestControllerActionPrecedence(t *testing.T) {
	f := newFakeBackend()
	f.hit = groundedHit(1.0)
	c := newTestController(t, f)
	c.SetBasis(NewFloatingWalk(testConfig()))

	first := &stubAction{name: "first", can: true, window: 1, life: 2}
	second := &stubAction{name: "second", can: true, window: 1, life: 2}
	c.Trigger(first)
	c.Trigger(second)

	if err := c.Tick(1.0 / 60); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if c.ActiveAction() != "first" {
		t.Fatalf("expected earlier-queued action active, got %q", c.ActiveAction())
	}
	if c.ActionStatus("second") != StatusQueued {
		t.Fatalf("expected second queued, got %v", c.ActionStatus("second"))
	}

	// keep the waiting action fed so its window cannot expire while the
	// first one runs out
	c.Trigger(second)
	if err := c.Tick(1.0 / 60); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if c.ActiveAction() != "" && c.ActiveAction() != "second" {
		t.Fatalf("first should be finished, got active %q", c.ActiveAction())
	}

	c.Trigger(second)
	if err := c.Tick(1.0 / 60); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if c.ActiveAction() != "second" {
		t.Fatalf("expected second active after first finished, got %q", c.ActiveAction())
	}
}

func TestControllerPreemptionCancelsActive(t *testing.T) {
	f := newFakeBackend()
	f.hit = groundedHit(1.0)
	c := newTestController(t, f)
	c.SetBasis(NewFloatingWalk(testConfig()))

	// an early trigger whose precondition is not met yet (think buffered
	// jump waiting to land) must not starve later triggers...
	waiter := &stubAction{name: "waiter", can: false, window: 10, life: 3}
	longRunner := &stubAction{name: "long", can: true, window: 1, life: 100}
	c.Trigger(waiter)
	c.Trigger(longRunner)
	if err := c.Tick(1.0 / 60); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if c.ActiveAction() != "long" {
		t.Fatalf("expected long active past the blocked head, got %q", c.ActiveAction())
	}
	if c.ActionStatus("waiter") != StatusQueued {
		t.Fatalf("expected waiter still queued, got %v", c.ActionStatus("waiter"))
	}

	// ...but the moment it can start, being earlier-queued, it takes the
	// slot back and the later action is cancelled outright
	waiter.can = true
	if err := c.Tick(1.0 / 60); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if c.ActiveAction() != "waiter" {
		t.Fatalf("expected waiter active, got %q", c.ActiveAction())
	}
	if c.ActionStatus("long") != StatusFinished {
		t.Fatalf("expected long cancelled, got %v", c.ActionStatus("long"))
	}
}

func TestControllerTriggerDeduplicates(t *testing.T) {
	f := newFakeBackend()
	c := newTestController(t, f)
	c.SetBasis(&stubBasis{name: "fixed"})

	blocked := &stubAction{name: "blocked", window: 10, life: 1}
	c.Trigger(blocked)
	c.Trigger(&stubAction{name: "blocked", window: 10, life: 1})
	if got := c.QueuedActions(); len(got) != 1 {
		t.Fatalf("expected one queued entry, got %v", got)
	}
}

func TestControllerBasisSwitchResetsState(t *testing.T) {
	const dt = 0.05
	f := newFakeBackend()
	f.hit = nil // airborne
	c := newTestController(t, f)
	c.SetBasis(NewFloatingWalk(testConfig()))

	for i := 0; i < 3; i++ {
		if err := c.Tick(dt); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if c.AirTime() != 3*dt {
		t.Fatalf("expected air time %v, got %v", 3*dt, c.AirTime())
	}

	// same variant: the installed instance and its state survive
	c.SetBasis(NewFloatingWalk(testConfig()))
	if err := c.Tick(dt); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if c.AirTime() != 4*dt {
		t.Fatalf("same-variant request must keep state, got air time %v", c.AirTime())
	}

	// different variant, then back: all prior state is gone
	c.SetBasis(&stubBasis{name: "fixed"})
	if err := c.Tick(dt); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	c.SetBasis(NewFloatingWalk(testConfig()))
	if err := c.Tick(dt); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if c.AirTime() != dt {
		t.Fatalf("expected fresh air time %v after variant switch, got %v", dt, c.AirTime())
	}
}

func TestControllerGoesInertOnMissingBody(t *testing.T) {
	f := newFakeBackend()
	f.hit = groundedHit(1.0)
	c := newTestController(t, f)
	c.SetBasis(NewFloatingWalk(testConfig()))

	if err := c.Tick(1.0 / 60); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	f.missing = true
	if err := c.Tick(1.0 / 60); !errors.Is(err, backend.ErrMissingBody) {
		t.Fatalf("expected ErrMissingBody, got %v", err)
	}
	if !c.Inert() {
		t.Fatalf("controller should be inert after losing its body")
	}

	calls := f.setCalls
	if err := c.Tick(1.0 / 60); err != nil {
		t.Fatalf("inert Tick should be a silent no-op, got %v", err)
	}
	if f.setCalls != calls {
		t.Fatalf("inert controller still applied commands")
	}

	// reconfiguring revives it
	f.missing = false
	c.Reset(testBody)
	c.SetBasis(NewFloatingWalk(testConfig()))
	if err := c.Tick(1.0 / 60); err != nil {
		t.Fatalf("Tick after Reset: %v", err)
	}
	if f.setCalls != calls+1 {
		t.Fatalf("revived controller did not apply")
	}
}

func TestControllerDegenerateCastIsAirborne(t *testing.T) {
	f := newFakeBackend()
	f.castErr = backend.ErrDegenerateCast
	c := newTestController(t, f)
	c.SetBasis(NewFloatingWalk(testConfig()))

	if err := c.Tick(1.0 / 60); err != nil {
		t.Fatalf("degenerate cast must not fail the tick: %v", err)
	}
	if c.Grounded() {
		t.Fatalf("degenerate cast must read as no ground")
	}
}

func TestControllerKnockback(t *testing.T) {
	f := newFakeBackend()
	c := newTestController(t, f)

	if err := c.Knockback(mgl64.Vec3{3, 1, 0}); err != nil {
		t.Fatalf("Knockback: %v", err)
	}
	if len(f.impulses) != 1 || f.impulses[0] != (mgl64.Vec3{3, 1, 0}) {
		t.Fatalf("expected one impulse, got %v", f.impulses)
	}
}

func TestSchedulerStepsAllControllers(t *testing.T) {
	f1 := newFakeBackend()
	f1.hit = groundedHit(1.0)
	f2 := newFakeBackend()
	f2.hit = groundedHit(1.0)

	c1 := newTestController(t, f1)
	c1.SetBasis(NewFloatingWalk(testConfig()))
	c2 := newTestController(t, f2)
	c2.SetBasis(NewFloatingWalk(testConfig()))

	s := NewScheduler(c1)
	s.Add(c2)
	if err := s.Step(1.0 / 60); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if f1.setCalls != 1 || f2.setCalls != 1 {
		t.Fatalf("expected one apply each, got %d and %d", f1.setCalls, f2.setCalls)
	}

	// one failing controller does not starve the other
	f1.missing = true
	if err := s.Step(1.0 / 60); !errors.Is(err, backend.ErrMissingBody) {
		t.Fatalf("expected joined ErrMissingBody, got %v", err)
	}
	if f2.setCalls != 2 {
		t.Fatalf("healthy controller skipped, applies=%d", f2.setCalls)
	}
}
