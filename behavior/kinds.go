package behavior

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"

	"go.magellan.dev/rover/spatialmath"
)

const (
	// DefaultSearchSpeedRPM is how fast SearchForTarget turns when no speed is given.
	DefaultSearchSpeedRPM = 10.0
	// DefaultJiggleAfter is how long ApproachTarget waits without a detection before nudging.
	DefaultJiggleAfter = 5 * time.Second
	// DefaultGiveUpAfter is how long ApproachTarget goes without a detection before failing.
	DefaultGiveUpAfter = 30 * time.Second
)

// NavigateToPose drives toward Target until within DistanceThreshold of it.
type NavigateToPose struct {
	Target            spatialmath.Pose
	DistanceThreshold float64
}

// Validate ensures the threshold is usable.
func (k NavigateToPose) Validate() error {
	if !(k.DistanceThreshold > 0) {
		return errors.Errorf("distance threshold must be positive, got %v", k.DistanceThreshold)
	}
	return nil
}

func (k NavigateToPose) String() string {
	return fmt.Sprintf("NavigateToPose(target=%v, threshold=%.2f)", k.Target, k.DistanceThreshold)
}

func (NavigateToPose) isKind() {}

// TurnInPlace rotates counter-clockwise by RotationAmount radians at AngularSpeed rad/s. Both
// must be positive; clockwise turns are not supported.
type TurnInPlace struct {
	RotationAmount float64
	AngularSpeed   float64
}

// Validate ensures the turn has somewhere to go and a speed to get there.
func (k TurnInPlace) Validate() error {
	if !(k.RotationAmount > 0) {
		return errors.Errorf("rotation amount must be positive, got %v", k.RotationAmount)
	}
	if !(k.AngularSpeed > 0) {
		return errors.Errorf("angular speed must be positive, got %v", k.AngularSpeed)
	}
	return nil
}

func (k TurnInPlace) String() string {
	return fmt.Sprintf("TurnInPlace(rotation=%.1f°, speed=%.2f)", k.RotationAmount*180/math.Pi, k.AngularSpeed)
}

func (TurnInPlace) isKind() {}

// SearchForTarget turns one full circle looking for a target. A zero AngularSpeed means
// DefaultSearchSpeedRPM.
type SearchForTarget struct {
	AngularSpeed float64
}

// Validate ensures the speed is not negative.
func (k SearchForTarget) Validate() error {
	if k.AngularSpeed < 0 || math.IsNaN(k.AngularSpeed) {
		return errors.Errorf("angular speed must not be negative, got %v", k.AngularSpeed)
	}
	return nil
}

func (k SearchForTarget) String() string {
	return fmt.Sprintf("SearchForTarget(speed=%.2f)", k.angularSpeed())
}

func (SearchForTarget) isKind() {}

func (k SearchForTarget) angularSpeed() float64 {
	if k.AngularSpeed == 0 {
		return RPMToAngularSpeed(DefaultSearchSpeedRPM)
	}
	return k.AngularSpeed
}

// ApproachTarget servos toward a visible target. Zero durations mean the defaults.
type ApproachTarget struct {
	JiggleAfter time.Duration
	GiveUpAfter time.Duration
}

// Validate ensures the timeouts are ordered.
func (k ApproachTarget) Validate() error {
	k = k.withDefaults()
	if k.JiggleAfter < 0 || k.GiveUpAfter < 0 {
		return errors.New("approach timeouts must not be negative")
	}
	if k.JiggleAfter > k.GiveUpAfter {
		return errors.Errorf("jiggle after (%v) must not exceed give up after (%v)", k.JiggleAfter, k.GiveUpAfter)
	}
	return nil
}

func (k ApproachTarget) String() string {
	k = k.withDefaults()
	return fmt.Sprintf("ApproachTarget(jiggle_after=%v, give_up_after=%v)", k.JiggleAfter, k.GiveUpAfter)
}

func (ApproachTarget) isKind() {}

func (k ApproachTarget) withDefaults() ApproachTarget {
	if k.JiggleAfter == 0 {
		k.JiggleAfter = DefaultJiggleAfter
	}
	if k.GiveUpAfter == 0 {
		k.GiveUpAfter = DefaultGiveUpAfter
	}
	return k
}
