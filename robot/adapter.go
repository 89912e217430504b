package robot

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.magellan.dev/rover/behavior"
	"go.magellan.dev/rover/components/base"
	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/sensors"
	"go.magellan.dev/rover/spatialmath"
	"go.magellan.dev/rover/vision"
)

// poseWaitInterval is how often WaitForPose polls.
var poseWaitInterval = 500 * time.Millisecond

// Adapter is the Robot that drives a real or simulated base from live sensor ports.
type Adapter struct {
	poses      sensors.PosePort
	detections sensors.DetectionPort
	base       base.Base
	deps       behavior.Dependencies
	logger     logging.Logger

	kind   behavior.Kind
	active behavior.Behavior

	pose    spatialmath.Pose
	hasPose bool
	path    []spatialmath.Pose
}

// NewAdapter returns an Adapter reading from poses and detections and driving b. A nil
// detections port never sees a target.
func NewAdapter(
	poses sensors.PosePort,
	detections sensors.DetectionPort,
	b base.Base,
	deps behavior.Dependencies,
	logger logging.Logger,
) *Adapter {
	if detections == nil {
		detections = sensors.NoDetections
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	deps.Logger = logger.Sublogger("behavior")
	return &Adapter{
		poses:      poses,
		detections: detections,
		base:       b,
		deps:       deps,
		logger:     logger,
	}
}

// StartBehavior discards the active behavior and starts a new one of the given kind.
func (a *Adapter) StartBehavior(kind behavior.Kind) error {
	b, err := behavior.New(kind, a.deps)
	if err != nil {
		return err
	}
	a.logger.Infow("starting behavior", "behavior", kind.String())
	a.kind = kind
	a.active = b
	return nil
}

// Step polls the ports once, steps the active behavior and sends its command to the base.
// When no new pose arrived the last known one is used.
func (a *Adapter) Step(ctx context.Context) (behavior.Outcome, error) {
	if a.active == nil {
		return behavior.None, ErrNoActiveBehavior
	}
	if err := a.refreshPose(); err != nil {
		return behavior.None, err
	}
	detection := a.pollDetection()

	cmd, outcome := a.active.Step(a.pose, detection)
	a.logger.Debugw("stepped", "behavior", a.kind.String(), "pose", a.pose.String(), "cmd", cmd, "outcome", outcome.String())
	if err := a.base.SetVelocity(ctx, cmd); err != nil {
		return outcome, errors.Wrap(err, "sending velocity to base")
	}

	a.path = append(a.path, a.pose)
	return outcome, nil
}

// pollDetection returns the newest detection, or nil when there is none or it lies outside
// the image.
func (a *Adapter) pollDetection() *vision.Detection {
	detection, ok := a.detections.Latest()
	if !ok || detection == nil {
		return nil
	}
	if err := detection.Validate(); err != nil {
		a.logger.Warnw("ignoring invalid detection", "detection", detection.String(), "error", err)
		return nil
	}
	return detection
}

func (a *Adapter) refreshPose() error {
	pose, ok := a.poses.Latest()
	switch {
	case ok:
		a.pose = pose
		a.hasPose = true
	case a.hasPose:
		a.logger.Info("using stale pose")
	default:
		return ErrNoPose
	}
	return nil
}

// WaitForPose blocks until a pose arrives, ctx is done or timeout elapses.
func (a *Adapter) WaitForPose(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := a.deps.Clock.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := a.deps.Clock.Ticker(poseWaitInterval)
	defer ticker.Stop()
	for {
		if err := a.refreshPose(); err == nil {
			a.logger.Infow("got pose", "pose", a.pose.String())
			return nil
		}
		a.logger.Info("waiting for pose...")

		select {
		case <-ctx.Done():
			return errors.Wrapf(ErrNoPose, "gave up after %v", timeout)
		case <-ticker.C:
		}
	}
}

// Pose returns the last known pose.
func (a *Adapter) Pose() (spatialmath.Pose, bool) {
	return a.pose, a.hasPose
}

// Path returns every pose a behavior has been stepped with.
func (a *Adapter) Path() []spatialmath.Pose {
	return append([]spatialmath.Pose(nil), a.path...)
}

// PathLength returns the distance travelled along Path.
func (a *Adapter) PathLength() float64 {
	var length float64
	for i := 1; i < len(a.path); i++ {
		length += a.path[i-1].DistanceTo(a.path[i])
	}
	return length
}

// Stop halts the base.
func (a *Adapter) Stop(ctx context.Context) error {
	return a.base.Stop(ctx)
}
