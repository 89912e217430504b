package behavior

import (
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"

	"go.magellan.dev/rover/components/base"
	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/spatialmath"
	"go.magellan.dev/rover/vision"
)

const (
	approachLinear  = 0.1
	approachAngular = 0.1
	jiggleAngular   = 0.1
)

type approachTarget struct {
	kind   ApproachTarget
	clock  clock.Clock
	rand   *rand.Rand
	logger logging.Logger

	// lostSince is zero while the target is in view.
	lostSince time.Time
}

func newApproachTarget(kind ApproachTarget, deps Dependencies) *approachTarget {
	return &approachTarget{
		kind:   kind.withDefaults(),
		clock:  deps.Clock,
		rand:   deps.Rand,
		logger: deps.Logger,
	}
}

func (app *approachTarget) Step(_ spatialmath.Pose, detection *vision.Detection) (base.VelocityCommand, Outcome) {
	if detection == nil {
		return app.lost()
	}
	app.lostSince = time.Time{}

	angular := -approachAngular
	if detection.HorizontalError() > 0 {
		angular = approachAngular
	}
	return base.VelocityCommand{Linear: approachLinear, Angular: angular}, Running
}

func (app *approachTarget) lost() (base.VelocityCommand, Outcome) {
	if app.lostSince.IsZero() {
		app.lostSince = app.clock.Now()
		return base.Zero, Running
	}

	elapsed := app.clock.Since(app.lostSince)
	switch {
	case elapsed >= app.kind.GiveUpAfter:
		app.logger.Infow("target lost", "elapsed", elapsed)
		return base.Zero, Error
	case elapsed >= app.kind.JiggleAfter:
		angular := jiggleAngular
		if app.rand.Intn(2) == 0 {
			angular = -jiggleAngular
		}
		app.logger.Debugw("jiggling to find target", "elapsed", elapsed, "angular", angular)
		return base.VelocityCommand{Angular: angular}, Running
	default:
		return base.Zero, Running
	}
}
