package robot

import (
	"context"

	"go.magellan.dev/rover/behavior"
	"go.magellan.dev/rover/logging"
)

// DefaultNoopSteps is how many steps a Noop behavior takes to succeed.
const DefaultNoopSteps = 5

// Noop is a Robot without hardware whose behaviors all succeed after a fixed number of steps.
type Noop struct {
	stepsPerBehavior int
	steps            int
	logger           logging.Logger
}

// NewNoop returns a Noop robot. A non-positive stepsPerBehavior means DefaultNoopSteps.
func NewNoop(stepsPerBehavior int, logger logging.Logger) *Noop {
	if stepsPerBehavior <= 0 {
		stepsPerBehavior = DefaultNoopSteps
	}
	return &Noop{stepsPerBehavior: stepsPerBehavior, logger: logger}
}

// StartBehavior resets the step count.
func (n *Noop) StartBehavior(kind behavior.Kind) error {
	if kind == nil {
		return behavior.ErrUnknownBehaviorKind
	}
	n.logger.Infow("starting behavior", "behavior", kind.String())
	n.steps = 0
	return nil
}

// Step reports Running until the configured number of steps is reached, then Success.
func (n *Noop) Step(ctx context.Context) (behavior.Outcome, error) {
	n.steps++
	if n.steps < n.stepsPerBehavior {
		return behavior.Running, nil
	}
	return behavior.Success, nil
}
