package behavior

import (
	"math"

	"go.magellan.dev/rover/components/base"
	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/spatialmath"
	"go.magellan.dev/rover/vision"
)

type searchForTarget struct {
	turn   *turnInPlace
	logger logging.Logger
}

func newSearchForTarget(kind SearchForTarget, logger logging.Logger) *searchForTarget {
	return &searchForTarget{
		turn:   newTurnInPlace(TurnInPlace{RotationAmount: 2 * math.Pi, AngularSpeed: kind.angularSpeed()}, logger),
		logger: logger,
	}
}

func (search *searchForTarget) Step(pose spatialmath.Pose, detection *vision.Detection) (base.VelocityCommand, Outcome) {
	if detection != nil {
		search.logger.Infow("target spotted", "detection", detection)
		return base.Zero, Success
	}

	cmd, outcome := search.turn.Step(pose, nil)
	if outcome == Success {
		search.logger.Info("full circle without seeing a target")
		return base.Zero, Error
	}
	return cmd, outcome
}
