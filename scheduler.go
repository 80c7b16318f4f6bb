package stride

import "errors"

// Scheduler steps a set of controllers once per simulation tick, in
// insertion order. It is a convenience for hosts without their own system
// runner; controllers are independent, so hosts that want parallelism can
// just as well call Tick themselves from worker goroutines, one body per
// worker.
type Scheduler struct {
	controllers []*Controller
}

// NewScheduler creates a scheduler over the given controllers.
func NewScheduler(controllers ...*Controller) *Scheduler {
	copied := append([]*Controller(nil), controllers...)
	return &Scheduler{controllers: copied}
}

// Add appends a controller to the step order.
func (s *Scheduler) Add(c *Controller) {
	if c == nil {
		return
	}
	s.controllers = append(s.controllers, c)
}

// Step ticks every controller with the same dt. A failing controller does
// not stop the others; all errors are joined into the return value.
func (s *Scheduler) Step(dt float64) error {
	var errs []error
	for _, c := range s.controllers {
		if err := c.Tick(dt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Controllers returns a copy of the step order.
func (s *Scheduler) Controllers() []*Controller {
	controllers := make([]*Controller, 0, len(s.controllers))
	return append(controllers, s.controllers...)
}
