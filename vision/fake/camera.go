// Package fake implements a simulated camera that reports target markers placed in the local frame.
package fake

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/sensors"
	"go.magellan.dev/rover/spatialmath"
	"go.magellan.dev/rover/vision"
)

// markerSizeM is the physical width of a target marker, used to size simulated detections.
const markerSizeM = 0.3

// Camera sees any target within Range metres whose bearing lies inside the horizontal field of view.
type Camera struct {
	targets []r3.Vector
	fov     float64
	rangeM  float64

	detections *sensors.Latest[*vision.Detection]
	logger     logging.Logger
}

// NewCamera returns a camera with a horizontal field of view of fov radians that can see
// targets up to rangeM metres away. Detections are published to detections, which may be nil.
func NewCamera(
	targets []r3.Vector,
	fov, rangeM float64,
	detections *sensors.Latest[*vision.Detection],
	logger logging.Logger,
) (*Camera, error) {
	if fov <= 0 || fov >= 2*math.Pi {
		return nil, errors.Errorf("field of view must be in (0, 2π), got %v", fov)
	}
	if rangeM <= 0 {
		return nil, errors.Errorf("range must be positive, got %v", rangeM)
	}
	return &Camera{targets: targets, fov: fov, rangeM: rangeM, detections: detections, logger: logger}, nil
}

// Detect returns the closest visible target as seen from pose, or nil, and publishes any hit.
func (c *Camera) Detect(pose spatialmath.Pose) *vision.Detection {
	var (
		best     *vision.Detection
		bestDist = math.Inf(1)
	)
	for _, target := range c.targets {
		dx, dy := target.X-pose.X, target.Y-pose.Y
		dist := math.Hypot(dx, dy)
		if dist > c.rangeM || dist >= bestDist {
			continue
		}
		bearing := spatialmath.NormalizeAngle(math.Atan2(dy, dx) - pose.Heading)
		if math.Abs(bearing) > c.fov/2 {
			continue
		}
		width := 1.0
		if dist > 0 {
			width = math.Min(1, 2*math.Atan2(markerSizeM/2, dist)/c.fov)
		}
		best = &vision.Detection{
			X:      0.5 - bearing/c.fov,
			Y:      0.5,
			Width:  width,
			Height: width,
			Score:  1 - dist/c.rangeM,
		}
		bestDist = dist
	}

	if best != nil && c.detections != nil {
		if err := c.detections.Publish(best); err != nil {
			c.logger.Debugw("dropping simulated detection", "detection", best, "error", err)
		}
	}
	return best
}
