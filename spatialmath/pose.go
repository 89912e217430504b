// Package spatialmath defines the planar pose used by the rover and the angle arithmetic
// around it.
package spatialmath

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Pose is a position and heading in the local planar frame. X and Y are in metres, with X
// pointing east and Y pointing north. Heading is in radians, counter-clockwise positive from
// the X axis, and is never normalized: a vehicle that spun twice has a heading near 4π.
type Pose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"th"`
}

// NewPose constructs a Pose.
func NewPose(x, y, heading float64) Pose {
	return Pose{X: x, Y: y, Heading: heading}
}

// NewPoseFromPoint returns a pose at pt with zero heading.
func NewPoseFromPoint(pt r2.Vec) Pose {
	return Pose{X: pt.X, Y: pt.Y}
}

// Point returns the position component of the pose.
func (p Pose) Point() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// DistanceTo returns the euclidean distance between the positions of p and q.
func (p Pose) DistanceTo(q Pose) float64 {
	return r2.Norm(r2.Sub(q.Point(), p.Point()))
}

// AngleTo returns the direction from p to q in [0, 2π).
func (p Pose) AngleTo(q Pose) float64 {
	d := r2.Sub(q.Point(), p.Point())
	return NormalizeAngle2Pi(math.Atan2(d.Y, d.X))
}

// Advance integrates a unicycle model over dt seconds: the heading is updated first, then
// the position moves along the new heading.
func (p Pose) Advance(linear, angular, dt float64) Pose {
	heading := p.Heading + angular*dt
	return Pose{
		X:       p.X + linear*math.Cos(heading)*dt,
		Y:       p.Y + linear*math.Sin(heading)*dt,
		Heading: heading,
	}
}

func (p Pose) String() string {
	return fmt.Sprintf("Pose(x=%.2f, y=%.2f, th=%.1f°)", p.X, p.Y, p.Heading*180/math.Pi)
}
