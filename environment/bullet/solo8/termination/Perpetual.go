package termination

// Perpetual never ends the episode. Useful as an explicit placeholder
// in configurations that run until an external step budget cuts the
// experiment off.
type Perpetual struct{}

// NewPerpetual returns a Perpetual Condition
func NewPerpetual() *Perpetual {
	return &Perpetual{}
}

func (p *Perpetual) IsTerminated() (bool, error) {
	return false, nil
}

func (p *Perpetual) Reset() {}
