package stride

// AirActionsCounter tracks how many discrete actions a character has
// started since it last stood on the ground. Hosts use it to budget double
// jumps and air dashes: update it once per tick, then gate midair triggers
// on AirCountFor.
//
// The counter is a single shared pool — it cannot express "one air jump
// and one air dash per flight" separately, only a total budget.
type AirActionsCounter struct {
	count int
	last  string
}

// Update observes the controller once per tick. Call it before triggering
// this tick's actions.
func (a *AirActionsCounter) Update(c *Controller) {
	if c == nil {
		return
	}
	if c.Grounded() && c.ActiveAction() == "" {
		a.count = 0
		a.last = ""
		return
	}
	name := c.ActiveAction()
	if name == "" {
		// the current air action ended midair; the next start is a new one
		a.last = ""
		return
	}
	if name != a.last {
		a.count++
		a.last = name
	}
}

// AirCountFor returns the ordinal the named action would occupy if started
// now: an action already being maintained keeps its number, anything else
// would be one more. Hosts compare the result against their allowed
// actions-in-air budget.
func (a *AirActionsCounter) AirCountFor(name string) int {
	if name == a.last {
		return a.count
	}
	return a.count + 1
}
