// Package fake implements a fake motor that remembers the power it was last driven at.
package fake

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.magellan.dev/rover/logging"
)

// A Motor allows setting and reading a set power percentage.
type Motor struct {
	Name string

	mu       sync.Mutex
	powerPct float64
	stops    int
	logger   logging.Logger
}

// NewMotor returns a stopped motor.
func NewMotor(name string, logger logging.Logger) *Motor {
	return &Motor{Name: name, logger: logger}
}

// SetPower sets the given power percentage, which must lie in [-1, 1].
func (m *Motor) SetPower(ctx context.Context, powerPct float64) error {
	if powerPct < -1 || powerPct > 1 {
		return errors.Errorf("motor %s: power %.3f out of range [-1, 1]", m.Name, powerPct)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger.Debugf("motor %s SetPower %f", m.Name, powerPct)
	m.powerPct = powerPct
	return nil
}

// Stop has the motor pretend to be off.
func (m *Motor) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger.Debugf("motor %s Stop", m.Name)
	m.powerPct = 0
	m.stops++
	return nil
}

// PowerPct returns the set power percentage.
func (m *Motor) PowerPct() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.powerPct
}

// StopCount returns how many times Stop was called.
func (m *Motor) StopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}
