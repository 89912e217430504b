package behavior

import (
	"go.magellan.dev/rover/components/base"
	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/spatialmath"
	"go.magellan.dev/rover/utils"
	"go.magellan.dev/rover/vision"
)

var (
	// noiseDelta is the apparent rotation treated as heading noise until progress is confirmed.
	noiseDelta = utils.DegToRad(270)
	// progressFraction of the requested rotation confirms the turn is really underway.
	progressFraction = 0.25
)

type turnInPlace struct {
	kind   TurnInPlace
	logger logging.Logger

	started              bool
	startingHeading      float64
	hasConfirmedProgress bool
}

func newTurnInPlace(kind TurnInPlace, logger logging.Logger) *turnInPlace {
	return &turnInPlace{kind: kind, logger: logger}
}

func (turn *turnInPlace) Step(pose spatialmath.Pose, _ *vision.Detection) (base.VelocityCommand, Outcome) {
	if !turn.started {
		turn.started = true
		turn.startingHeading = pose.Heading
	}

	delta := spatialmath.ForwardAngleDelta(turn.startingHeading, pose.Heading)
	if !turn.hasConfirmedProgress && delta > noiseDelta {
		turn.logger.Debugw("ignoring implausible rotation", "delta_deg", utils.RadToDeg(delta))
		delta = 0
	}
	if !turn.hasConfirmedProgress && delta > progressFraction*turn.kind.RotationAmount {
		turn.hasConfirmedProgress = true
	}

	if delta < turn.kind.RotationAmount {
		return base.VelocityCommand{Angular: turn.kind.AngularSpeed}, Running
	}
	turn.logger.Debugw("turn complete", "delta_deg", utils.RadToDeg(delta))
	return base.Zero, Success
}
