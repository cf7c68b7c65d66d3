package termination

// TimeBased ends the episode after a fixed number of simulation steps.
// Each IsTerminated call counts one step.
type TimeBased struct {
	maxTicks int
	ticks    int
}

// NewTimeBased returns a TimeBased Condition firing after maxTicks
// steps
func NewTimeBased(maxTicks int) *TimeBased {
	return &TimeBased{maxTicks: maxTicks}
}

func (t *TimeBased) IsTerminated() (bool, error) {
	t.ticks++
	return t.ticks >= t.maxTicks, nil
}

func (t *TimeBased) Reset() {
	t.ticks = 0
}
