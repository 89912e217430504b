// Package behavior implements the closed-loop motion behaviors a rover runs between
// waypoints: driving to a pose, turning in place, searching for a target and approaching it.
//
// A Behavior is stepped once per tick with the freshest pose and the detection seen since the
// previous tick (nil if none), and returns the velocity command to apply along with its
// outcome. A Behavior keeps private state between steps and is discarded when another one is
// started.
package behavior

import (
	"math"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.magellan.dev/rover/components/base"
	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/spatialmath"
	"go.magellan.dev/rover/vision"
)

// ErrUnknownBehaviorKind is returned by New for a kind it cannot build.
var ErrUnknownBehaviorKind = errors.New("unknown behavior kind")

// Outcome is the result of a single behavior step.
type Outcome int

// The possible outcomes. None is the zero value, reported before anything has been stepped.
const (
	None Outcome = iota
	Running
	Success
	Error
)

func (o Outcome) String() string {
	switch o {
	case None:
		return "None"
	case Running:
		return "Running"
	case Success:
		return "Success"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Done reports whether the outcome ends the behavior.
func (o Outcome) Done() bool {
	return o == Success || o == Error
}

// A Behavior turns feedback into a velocity command.
type Behavior interface {
	Step(pose spatialmath.Pose, detection *vision.Detection) (base.VelocityCommand, Outcome)
}

// Kind selects and parameterizes a behavior. The set of kinds is closed.
type Kind interface {
	Validate() error
	String() string
	isKind()
}

// Dependencies are the collaborators a behavior may need besides its parameters.
type Dependencies struct {
	Clock  clock.Clock
	Rand   *rand.Rand
	Logger logging.Logger
}

func (deps Dependencies) withDefaults() Dependencies {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewBlankLogger("behavior")
	}
	return deps
}

// New validates kind and returns a fresh behavior for it.
func New(kind Kind, deps Dependencies) (Behavior, error) {
	if kind == nil {
		return nil, ErrUnknownBehaviorKind
	}
	if err := kind.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", kind)
	}
	deps = deps.withDefaults()

	switch k := kind.(type) {
	case NavigateToPose:
		return newNavigateToPose(k, deps.Logger), nil
	case TurnInPlace:
		return newTurnInPlace(k, deps.Logger), nil
	case SearchForTarget:
		return newSearchForTarget(k, deps.Logger), nil
	case ApproachTarget:
		return newApproachTarget(k, deps), nil
	default:
		return nil, errors.Wrapf(ErrUnknownBehaviorKind, "%T", kind)
	}
}

// RPMToAngularSpeed converts revolutions per minute to radians per second.
func RPMToAngularSpeed(rpm float64) float64 {
	return rpm / 60 * 2 * math.Pi
}
