// Package rewards implements the reward scheme for solo8 environments.
// Rewards are registered with a Factory together with a weight; the
// factory reports the weighted sum as the scalar step reward.
package rewards

import (
	"fmt"
)

// Reward computes a scalar reward from the current physics state.
// Rewards never receive the action taken or any other reward's output:
// each reads the state it needs through idempotent client queries.
type Reward interface {
	Compute() (float64, error)
}

// Factory aggregates registered Rewards into one scalar per step
type Factory struct {
	rewards []Reward
	weights []float64
}

// NewFactory returns a Factory with no registered Rewards. An empty
// Factory reports a reward of 0 on every step.
func NewFactory() *Factory {
	return &Factory{}
}

// Register adds a Reward with the given weight
func (f *Factory) Register(r Reward, weight float64) {
	f.rewards = append(f.rewards, r)
	f.weights = append(f.weights, weight)
}

// GetReward computes the weighted sum of all registered Rewards
func (f *Factory) GetReward() (float64, error) {
	total := 0.0
	for i, r := range f.rewards {
		value, err := r.Compute()
		if err != nil {
			return 0, fmt.Errorf("getReward: %v", err)
		}
		total += f.weights[i] * value
	}
	return total, nil
}
