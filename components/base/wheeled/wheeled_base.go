// Package wheeled implements a differential drive base on top of left and right motor channels.
package wheeled

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.magellan.dev/rover/components/base"
	"go.magellan.dev/rover/logging"
	roverutils "go.magellan.dev/rover/utils"
)

// Motor is a single motor channel driven by a signed power fraction in [-1, 1].
type Motor interface {
	SetPower(ctx context.Context, powerPct float64) error
	Stop(ctx context.Context) error
}

// Config is how you configure a wheeled base.
type Config struct {
	WidthM          float64 `json:"width_m"`
	MaxSpeedMPerSec float64 `json:"max_speed_m_per_sec"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.WidthM <= 0 {
		return roverutils.NewConfigValidationPositiveFieldError(path, "width_m", cfg.WidthM)
	}
	if cfg.MaxSpeedMPerSec <= 0 {
		return roverutils.NewConfigValidationPositiveFieldError(path, "max_speed_m_per_sec", cfg.MaxSpeedMPerSec)
	}
	return nil
}

type wheeledBase struct {
	widthM   float64
	maxSpeed float64

	mu        sync.Mutex
	left      []Motor
	right     []Motor
	allMotors []Motor

	logger logging.Logger
}

// NewWheeledBase returns a base that splits each velocity command into wheel speeds and drives
// every left and right motor at the matching power.
func NewWheeledBase(cfg Config, left, right []Motor, logger logging.Logger) (base.Base, error) {
	if err := cfg.Validate("base"); err != nil {
		return nil, err
	}
	if len(left) == 0 || len(right) == 0 {
		return nil, errors.New("wheeled base needs at least one left and one right motor")
	}
	if len(left) != len(right) {
		return nil, errors.Errorf("left and right need to have the same number of motors, not %d vs %d", len(left), len(right))
	}

	wb := &wheeledBase{
		widthM:   cfg.WidthM,
		maxSpeed: cfg.MaxSpeedMPerSec,
		left:     left,
		right:    right,
		logger:   logger,
	}
	wb.allMotors = append(wb.allMotors, left...)
	wb.allMotors = append(wb.allMotors, right...)
	return wb, nil
}

// SetVelocity commands the base to move at the given linear and angular velocities.
func (wb *wheeledBase) SetVelocity(ctx context.Context, cmd base.VelocityCommand) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	lPower, rPower := wb.velocityMath(cmd)
	wb.logger.Debugf("received a SetVelocity with %v, left power %.2f, right power %.2f", cmd, lPower, rPower)

	var err error
	for _, m := range wb.left {
		err = multierr.Combine(err, m.SetPower(ctx, lPower))
	}
	for _, m := range wb.right {
		err = multierr.Combine(err, m.SetPower(ctx, rPower))
	}
	if err != nil {
		return multierr.Combine(err, wb.stop(ctx))
	}
	return nil
}

// velocityMath converts a command into left and right power fractions, clamped to [-1, 1].
func (wb *wheeledBase) velocityMath(cmd base.VelocityCommand) (float64, float64) {
	left, right := base.ToWheelSpeeds(cmd, wb.widthM)
	return roverutils.Clamp(left/wb.maxSpeed, -1, 1), roverutils.Clamp(right/wb.maxSpeed, -1, 1)
}

// Stop commands the base to stop moving.
func (wb *wheeledBase) Stop(ctx context.Context) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.stop(ctx)
}

func (wb *wheeledBase) stop(ctx context.Context) error {
	var err error
	for _, m := range wb.allMotors {
		err = multierr.Combine(err, m.Stop(ctx))
	}
	return err
}
