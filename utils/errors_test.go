package utils

import (
	"errors"
	"math"
	"testing"

	"go.viam.com/test"
)

func TestConfigValidationErrors(t *testing.T) {
	err := NewConfigValidationFieldRequiredError("rover.base", "width_m")
	test.That(t, err.Error(), test.ShouldEqual, `error validating "rover.base": "width_m" is required`)

	err = NewConfigValidationPositiveFieldError("rover", "tick_rate_hz", -2)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"tick_rate_hz" must be positive, got -2`)

	inner := errors.New("bad thing")
	err = NewConfigValidationError("rover.sim", inner)
	test.That(t, errors.Is(err, inner), test.ShouldBeTrue)
}

func TestMath(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90.0)
	test.That(t, RadToDeg(DegToRad(-405)), test.ShouldAlmostEqual, -405.0)

	test.That(t, Clamp(5, -math.Pi, math.Pi), test.ShouldEqual, math.Pi)
	test.That(t, Clamp(-5, -math.Pi, math.Pi), test.ShouldEqual, -math.Pi)
	test.That(t, Clamp(0.5, -1, 1), test.ShouldEqual, 0.5)
}
