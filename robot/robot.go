// Package robot is the boundary between the mission state machine and the rover: it owns the
// active motion behavior, feeds it sensor snapshots and forwards its commands to the base.
package robot

import (
	"context"

	"github.com/pkg/errors"

	"go.magellan.dev/rover/behavior"
)

var (
	// ErrNoActiveBehavior is returned when stepping before any behavior was started.
	ErrNoActiveBehavior = errors.New("no active behavior")
	// ErrNoPose is returned when a behavior needs a pose and none has ever been received.
	ErrNoPose = errors.New("no pose received")
)

// A Robot runs one motion behavior at a time.
type Robot interface {
	// StartBehavior replaces the active behavior with a fresh one of the given kind.
	StartBehavior(kind behavior.Kind) error

	// Step runs the active behavior once. A non-nil error is fatal to the mission.
	Step(ctx context.Context) (behavior.Outcome, error)
}
