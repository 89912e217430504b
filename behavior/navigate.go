package behavior

import (
	"math"

	"go.magellan.dev/rover/components/base"
	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/spatialmath"
	"go.magellan.dev/rover/utils"
	"go.magellan.dev/rover/vision"
)

const (
	maxNavLinear  = 1.0
	maxNavAngular = math.Pi
	// crawlSpeed keeps the rover creeping forward while the goal is behind it.
	crawlSpeed = 0.1
)

type navigateToPose struct {
	kind   NavigateToPose
	logger logging.Logger
}

func newNavigateToPose(kind NavigateToPose, logger logging.Logger) *navigateToPose {
	return &navigateToPose{kind: kind, logger: logger}
}

func (nav *navigateToPose) Step(pose spatialmath.Pose, _ *vision.Detection) (base.VelocityCommand, Outcome) {
	dist := pose.DistanceTo(nav.kind.Target)
	if dist < nav.kind.DistanceThreshold {
		nav.logger.Debugw("goal reached", "distance", dist)
		return base.Zero, Success
	}

	headingError := spatialmath.NormalizeAngle(pose.AngleTo(nav.kind.Target) - pose.Heading)
	cmd := base.VelocityCommand{
		Linear:  navLinearSpeed(headingError),
		Angular: utils.Clamp(2*headingError, -maxNavAngular, maxNavAngular),
	}
	nav.logger.Debugw("navigating", "distance", dist, "heading_error_deg", utils.RadToDeg(headingError), "cmd", cmd)
	return cmd, Running
}

// navLinearSpeed falls linearly from full speed with no heading error to zero at 90°, and
// crawls beyond that.
func navLinearSpeed(headingError float64) float64 {
	abs := math.Abs(headingError)
	if abs >= math.Pi/2 {
		return crawlSpeed
	}
	return maxNavLinear * (1 - 2/math.Pi*abs)
}
