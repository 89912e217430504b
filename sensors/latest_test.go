package sensors

import (
	"sync"
	"testing"

	"go.viam.com/test"

	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/spatialmath"
	"go.magellan.dev/rover/vision"
)

func TestLatestLastValueWins(t *testing.T) {
	logger := logging.NewTestLogger(t)
	poses := NewLatest[spatialmath.Pose]("pose", logger)

	_, ok := poses.Latest()
	test.That(t, ok, test.ShouldBeFalse)

	test.That(t, poses.Publish(spatialmath.NewPose(1, 0, 0)), test.ShouldBeNil)
	test.That(t, poses.Publish(spatialmath.NewPose(2, 0, 0)), test.ShouldBeNil)
	test.That(t, poses.Publish(spatialmath.NewPose(3, 0, 0)), test.ShouldBeNil)

	pose, ok := poses.Latest()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pose, test.ShouldResemble, spatialmath.NewPose(3, 0, 0))
	test.That(t, poses.Published(), test.ShouldEqual, int64(3))

	// consumed once
	_, ok = poses.Latest()
	test.That(t, ok, test.ShouldBeFalse)
}

func TestLatestMissWarnings(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	detections := NewLatest[*vision.Detection]("detections", logger)

	for i := 0; i < missWarnThreshold; i++ {
		_, ok := detections.Latest()
		test.That(t, ok, test.ShouldBeFalse)
	}
	test.That(t, logs.FilterMessage("no data received").Len(), test.ShouldEqual, 0)

	detections.Latest()
	test.That(t, logs.FilterMessage("no data received").Len(), test.ShouldEqual, 1)
	test.That(t, detections.Misses(), test.ShouldEqual, int64(missWarnThreshold+1))

	test.That(t, detections.Publish(vision.Centered()), test.ShouldBeNil)
	det, ok := detections.Latest()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, det.X, test.ShouldEqual, 0.5)
	test.That(t, detections.Misses(), test.ShouldEqual, int64(0))
}

func TestLatestClose(t *testing.T) {
	poses := NewLatest[spatialmath.Pose]("pose", logging.NewTestLogger(t))
	test.That(t, poses.Publish(spatialmath.NewPose(1, 1, 0)), test.ShouldBeNil)
	test.That(t, poses.Close(), test.ShouldBeNil)
	test.That(t, poses.Publish(spatialmath.NewPose(2, 2, 0)), test.ShouldBeError, ErrClosed)

	pose, ok := poses.Latest()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pose.X, test.ShouldEqual, 1.0)
}

func TestLatestConcurrentProducer(t *testing.T) {
	poses := NewLatest[spatialmath.Pose]("pose", logging.NewBlankLogger("pose"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 1000; i++ {
			if err := poses.Publish(spatialmath.NewPose(float64(i), 0, 0)); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	last := 0.0
	for i := 0; i < 1000; i++ {
		if pose, ok := poses.Latest(); ok {
			// never goes backwards
			test.That(t, pose.X, test.ShouldBeGreaterThan, last)
			last = pose.X
		}
	}
	wg.Wait()

	if pose, ok := poses.Latest(); ok {
		last = pose.X
	}
	test.That(t, last, test.ShouldEqual, 1000.0)
}

func TestPortFuncs(t *testing.T) {
	var port PosePort = PosePortFunc(func() (spatialmath.Pose, bool) { return spatialmath.NewPose(1, 2, 3), true })
	pose, ok := port.Latest()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pose.Heading, test.ShouldEqual, 3.0)

	det, ok := NoDetections.Latest()
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, det, test.ShouldBeNil)

	var _ PosePort = NewLatest[spatialmath.Pose]("pose", logging.NewBlankLogger("pose"))
	var _ DetectionPort = NewLatest[*vision.Detection]("det", logging.NewBlankLogger("det"))
}
