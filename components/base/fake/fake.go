// Package fake implements a fake base that integrates the commands it receives into a pose.
package fake

import (
	"context"
	"sync"

	"go.magellan.dev/rover/components/base"
	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/sensors"
	"go.magellan.dev/rover/spatialmath"
)

// Base is a fake base that moves a simulated pose according to the last velocity command and
// publishes every new pose.
type Base struct {
	mu       sync.Mutex
	pose     spatialmath.Pose
	current  base.VelocityCommand
	commands []base.VelocityCommand
	stops    int

	poses  *sensors.Latest[spatialmath.Pose]
	logger logging.Logger
}

// NewBase returns a fake base standing at start. Poses are published to poses, which may be nil.
func NewBase(start spatialmath.Pose, poses *sensors.Latest[spatialmath.Pose], logger logging.Logger) *Base {
	return &Base{pose: start, poses: poses, logger: logger}
}

// SetVelocity records cmd and uses it for subsequent simulation steps.
func (b *Base) SetVelocity(ctx context.Context, cmd base.VelocityCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = cmd
	b.commands = append(b.commands, cmd)
	return nil
}

// Stop zeroes the current command.
func (b *Base) Stop(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = base.Zero
	b.stops++
	return nil
}

// Simulate advances the pose by dt seconds at the current command and publishes it.
func (b *Base) Simulate(dt float64) spatialmath.Pose {
	b.mu.Lock()
	b.pose = b.pose.Advance(b.current.Linear, b.current.Angular, dt)
	pose := b.pose
	b.mu.Unlock()

	if b.poses != nil {
		if err := b.poses.Publish(pose); err != nil {
			b.logger.Debugw("dropping simulated pose", "pose", pose, "error", err)
		}
	}
	return pose
}

// Pose returns the simulated pose.
func (b *Base) Pose() spatialmath.Pose {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pose
}

// Commands returns every command received so far.
func (b *Base) Commands() []base.VelocityCommand {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]base.VelocityCommand(nil), b.commands...)
}

// StopCount returns how many times Stop was called.
func (b *Base) StopCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stops
}
