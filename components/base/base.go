// Package base defines the actuator sink the rover drives: a mobile base that accepts a
// linear and angular velocity each tick.
package base

import (
	"context"
	"fmt"
)

// VelocityCommand is a velocity intent for a planar mobile base. Linear is in m/s along the
// heading, Angular in rad/s counter-clockwise.
type VelocityCommand struct {
	Linear  float64 `json:"linear"`
	Angular float64 `json:"angular"`
}

// Zero is the stop command.
var Zero = VelocityCommand{}

func (cmd VelocityCommand) String() string {
	return fmt.Sprintf("VelocityCommand(linear=%.4f, angular=%.4f)", cmd.Linear, cmd.Angular)
}

// A Base represents a physical base of a robot. It has no feedback into the caller beyond
// errors from the underlying hardware.
type Base interface {
	// SetVelocity sets the velocity of the base until the next call.
	SetVelocity(ctx context.Context, cmd VelocityCommand) error

	// Stop stops the base. It is assumed the base stops immediately.
	Stop(ctx context.Context) error
}

// ToWheelSpeeds splits a command into left and right wheel surface speeds for a differential
// drive whose wheels are widthM apart.
func ToWheelSpeeds(cmd VelocityCommand, widthM float64) (left, right float64) {
	half := widthM / 2
	return cmd.Linear - cmd.Angular*half, cmd.Linear + cmd.Angular*half
}

// FromWheelSpeeds is the inverse of ToWheelSpeeds.
func FromWheelSpeeds(left, right, widthM float64) VelocityCommand {
	return VelocityCommand{Linear: (left + right) / 2, Angular: (right - left) / widthM}
}
