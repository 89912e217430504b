// Package sensors defines the pose and detection ports the rover reads each tick, and the
// last-value-wins mailbox that backs them.
//
// Producers publish as fast as they like; a consumer only ever sees the newest sample, and
// sees it once. Polling when nothing new has arrived returns no data rather than repeating
// the previous sample, so the consumer decides whether stale data is acceptable.
package sensors

import (
	"go.magellan.dev/rover/spatialmath"
	"go.magellan.dev/rover/vision"
)

// PosePort supplies the most recent pose published since the previous poll.
type PosePort interface {
	Latest() (spatialmath.Pose, bool)
}

// DetectionPort supplies the most recent target detection published since the previous poll.
type DetectionPort interface {
	Latest() (*vision.Detection, bool)
}

// PosePortFunc adapts a function to a PosePort.
type PosePortFunc func() (spatialmath.Pose, bool)

// Latest calls f.
func (f PosePortFunc) Latest() (spatialmath.Pose, bool) {
	return f()
}

// DetectionPortFunc adapts a function to a DetectionPort.
type DetectionPortFunc func() (*vision.Detection, bool)

// Latest calls f.
func (f DetectionPortFunc) Latest() (*vision.Detection, bool) {
	return f()
}

// NoDetections is a DetectionPort that never sees anything.
var NoDetections DetectionPort = DetectionPortFunc(func() (*vision.Detection, bool) { return nil, false })
