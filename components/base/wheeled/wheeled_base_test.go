package wheeled

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.viam.com/test"

	"go.magellan.dev/rover/components/base"
	"go.magellan.dev/rover/logging"
)

type fakeMotor struct {
	power    float64
	stopped  int
	setErr   error
	setCalls int
}

func (m *fakeMotor) SetPower(ctx context.Context, powerPct float64) error {
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.power = powerPct
	return nil
}

func (m *fakeMotor) Stop(ctx context.Context) error {
	m.stopped++
	m.power = 0
	return nil
}

var testCfg = Config{WidthM: 1, MaxSpeedMPerSec: 2}

func TestWheelBaseMath(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)
	fl, bl, fr, br := &fakeMotor{}, &fakeMotor{}, &fakeMotor{}, &fakeMotor{}

	b, err := NewWheeledBase(testCfg, []Motor{fl, bl}, []Motor{fr, br}, logger)
	test.That(t, err, test.ShouldBeNil)

	t.Run("straight", func(t *testing.T) {
		test.That(t, b.SetVelocity(ctx, base.VelocityCommand{Linear: 1}), test.ShouldBeNil)
		for _, m := range []*fakeMotor{fl, bl, fr, br} {
			test.That(t, m.power, test.ShouldEqual, 0.5)
		}
	})

	t.Run("spin counter-clockwise", func(t *testing.T) {
		test.That(t, b.SetVelocity(ctx, base.VelocityCommand{Angular: 2}), test.ShouldBeNil)
		test.That(t, fl.power, test.ShouldEqual, -0.5)
		test.That(t, fr.power, test.ShouldEqual, 0.5)
	})

	t.Run("clamped", func(t *testing.T) {
		test.That(t, b.SetVelocity(ctx, base.VelocityCommand{Linear: 1, Angular: math.Pi}), test.ShouldBeNil)
		test.That(t, fr.power, test.ShouldEqual, 1.0)
		test.That(t, fl.power, test.ShouldAlmostEqual, (1-math.Pi/2)/2)
	})

	t.Run("stop", func(t *testing.T) {
		test.That(t, b.Stop(ctx), test.ShouldBeNil)
		for _, m := range []*fakeMotor{fl, bl, fr, br} {
			test.That(t, m.power, test.ShouldEqual, 0.0)
			test.That(t, m.stopped, test.ShouldEqual, 1)
		}
	})
}

func TestWheelBaseMotorFailureStops(t *testing.T) {
	ctx := context.Background()
	broken := &fakeMotor{setErr: errors.New("serial port gone")}
	right := &fakeMotor{}
	b, err := NewWheeledBase(testCfg, []Motor{broken}, []Motor{right}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	err = b.SetVelocity(ctx, base.VelocityCommand{Linear: 1})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "serial port gone")
	test.That(t, right.stopped, test.ShouldEqual, 1)
	test.That(t, broken.stopped, test.ShouldEqual, 1)
}

func TestWheelBaseConfig(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m := func() []Motor { return []Motor{&fakeMotor{}} }

	_, err := NewWheeledBase(Config{MaxSpeedMPerSec: 1}, m(), m(), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "width_m")

	_, err = NewWheeledBase(Config{WidthM: 1}, m(), m(), logger)
	test.That(t, err.Error(), test.ShouldContainSubstring, "max_speed_m_per_sec")

	_, err = NewWheeledBase(testCfg, nil, m(), logger)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewWheeledBase(testCfg, append(m(), m()...), m(), logger)
	test.That(t, err.Error(), test.ShouldContainSubstring, "same number of motors")
}
