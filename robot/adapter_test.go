package robot

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"go.magellan.dev/rover/behavior"
	"go.magellan.dev/rover/components/base"
	"go.magellan.dev/rover/components/base/fake"
	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/sensors"
	"go.magellan.dev/rover/spatialmath"
	"go.magellan.dev/rover/vision"
)

type failingBase struct{ stops int }

func (b *failingBase) SetVelocity(ctx context.Context, cmd base.VelocityCommand) error {
	return errors.New("motor controller offline")
}

func (b *failingBase) Stop(ctx context.Context) error {
	b.stops++
	return nil
}

func newSimAdapter(t *testing.T) (*Adapter, *fake.Base, *sensors.Latest[spatialmath.Pose], *sensors.Latest[*vision.Detection]) {
	t.Helper()
	logger := logging.NewTestLogger(t)
	poses := sensors.NewLatest[spatialmath.Pose]("pose", logger)
	detections := sensors.NewLatest[*vision.Detection]("detections", logger)
	b := fake.NewBase(spatialmath.NewPose(0, 0, 0), poses, logger)
	return NewAdapter(poses, detections, b, behavior.Dependencies{}, logger), b, poses, detections
}

func TestAdapterStep(t *testing.T) {
	ctx := context.Background()
	a, b, poses, _ := newSimAdapter(t)

	_, err := a.Step(ctx)
	test.That(t, err, test.ShouldEqual, ErrNoActiveBehavior)

	test.That(t, a.StartBehavior(behavior.NavigateToPose{Target: spatialmath.NewPose(5, 0, 0), DistanceThreshold: 0.5}), test.ShouldBeNil)

	_, err = a.Step(ctx)
	test.That(t, err, test.ShouldEqual, ErrNoPose)

	test.That(t, poses.Publish(spatialmath.NewPose(0, 0, 0)), test.ShouldBeNil)
	outcome, err := a.Step(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome, test.ShouldEqual, behavior.Running)
	test.That(t, b.Commands(), test.ShouldHaveLength, 1)
	test.That(t, b.Commands()[0].Linear, test.ShouldAlmostEqual, 1.0)

	for i := 0; i < 200 && outcome == behavior.Running; i++ {
		b.Simulate(0.1)
		outcome, err = a.Step(ctx)
		test.That(t, err, test.ShouldBeNil)
	}
	test.That(t, outcome, test.ShouldEqual, behavior.Success)
	test.That(t, b.Commands()[len(b.Commands())-1], test.ShouldResemble, base.Zero)

	path := a.Path()
	test.That(t, len(path), test.ShouldBeGreaterThan, 2)
	test.That(t, path[0], test.ShouldResemble, spatialmath.NewPose(0, 0, 0))
	test.That(t, a.PathLength(), test.ShouldAlmostEqual, 4.5, 0.2)
}

func TestAdapterStalePose(t *testing.T) {
	ctx := context.Background()
	logger, logs := logging.NewObservedTestLogger(t)
	poses := sensors.NewLatest[spatialmath.Pose]("pose", logger)
	b := fake.NewBase(spatialmath.NewPose(0, 0, 0), nil, logger)
	a := NewAdapter(poses, nil, b, behavior.Dependencies{}, logger)

	test.That(t, a.StartBehavior(behavior.TurnInPlace{RotationAmount: math.Pi, AngularSpeed: 1}), test.ShouldBeNil)
	test.That(t, poses.Publish(spatialmath.NewPose(1, 2, 0)), test.ShouldBeNil)

	for i := 0; i < 3; i++ {
		outcome, err := a.Step(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, outcome, test.ShouldEqual, behavior.Running)
	}
	test.That(t, logs.FilterMessage("using stale pose").Len(), test.ShouldEqual, 2)

	pose, ok := a.Pose()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pose, test.ShouldResemble, spatialmath.NewPose(1, 2, 0))
	test.That(t, a.Path(), test.ShouldHaveLength, 3)
}

func TestAdapterDetections(t *testing.T) {
	ctx := context.Background()
	a, b, poses, detections := newSimAdapter(t)

	test.That(t, a.StartBehavior(behavior.SearchForTarget{}), test.ShouldBeNil)
	test.That(t, poses.Publish(spatialmath.NewPose(0, 0, 0)), test.ShouldBeNil)
	outcome, err := a.Step(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome, test.ShouldEqual, behavior.Running)
	test.That(t, b.Commands()[0].Angular, test.ShouldBeGreaterThan, 0)

	test.That(t, detections.Publish(&vision.Detection{X: 0.4}), test.ShouldBeNil)
	outcome, err = a.Step(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome, test.ShouldEqual, behavior.Success)

	// restarting discards the old behavior's progress
	test.That(t, a.StartBehavior(behavior.SearchForTarget{}), test.ShouldBeNil)
	outcome, err = a.Step(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome, test.ShouldEqual, behavior.Running)
}

func TestAdapterIgnoresInvalidDetection(t *testing.T) {
	ctx := context.Background()
	logger, logs := logging.NewObservedTestLogger(t)
	poses := sensors.NewLatest[spatialmath.Pose]("pose", logger)
	detections := sensors.NewLatest[*vision.Detection]("detections", logger)
	a := NewAdapter(poses, detections, fake.NewBase(spatialmath.Pose{}, poses, logger), behavior.Dependencies{}, logger)

	test.That(t, a.StartBehavior(behavior.SearchForTarget{}), test.ShouldBeNil)
	test.That(t, poses.Publish(spatialmath.NewPose(0, 0, 0)), test.ShouldBeNil)
	for _, det := range []*vision.Detection{{X: 1.5, Y: 0.5}, {X: math.NaN(), Y: 0.5}, {X: 0.5, Y: -1}} {
		test.That(t, detections.Publish(det), test.ShouldBeNil)
		outcome, err := a.Step(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, outcome, test.ShouldEqual, behavior.Running)
	}
	test.That(t, logs.FilterMessage("ignoring invalid detection").Len(), test.ShouldEqual, 3)

	test.That(t, detections.Publish(&vision.Detection{X: 1, Y: 0.5}), test.ShouldBeNil)
	outcome, err := a.Step(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome, test.ShouldEqual, behavior.Success)
}

func TestAdapterApproachTargetLost(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)
	mock := clock.NewMock()
	poses := sensors.NewLatest[spatialmath.Pose]("pose", logger)
	detections := sensors.NewLatest[*vision.Detection]("detections", logger)
	b := fake.NewBase(spatialmath.Pose{}, poses, logger)
	deps := behavior.Dependencies{Clock: mock, Rand: rand.New(rand.NewSource(1))}
	a := NewAdapter(poses, detections, b, deps, logger)

	test.That(t, a.StartBehavior(behavior.ApproachTarget{JiggleAfter: time.Second, GiveUpAfter: 3 * time.Second}), test.ShouldBeNil)
	test.That(t, poses.Publish(spatialmath.NewPose(0, 0, 0)), test.ShouldBeNil)
	test.That(t, detections.Publish(&vision.Detection{X: 0.25, Y: 0.5}), test.ShouldBeNil)
	outcome, err := a.Step(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome, test.ShouldEqual, behavior.Running)
	test.That(t, b.Commands()[0].Linear, test.ShouldBeGreaterThan, 0)
	test.That(t, b.Commands()[0].Angular, test.ShouldBeGreaterThan, 0)

	// the target disappears: hold still, then jiggle, then give up
	outcome, err = a.Step(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome, test.ShouldEqual, behavior.Running)
	test.That(t, b.Commands()[1], test.ShouldResemble, base.Zero)

	mock.Add(time.Second)
	outcome, err = a.Step(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome, test.ShouldEqual, behavior.Running)
	test.That(t, b.Commands()[2].Linear, test.ShouldEqual, 0.0)
	test.That(t, math.Abs(b.Commands()[2].Angular), test.ShouldAlmostEqual, 0.1)

	mock.Add(2 * time.Second)
	outcome, err = a.Step(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome, test.ShouldEqual, behavior.Error)
	test.That(t, b.Commands()[3], test.ShouldResemble, base.Zero)
}

func TestAdapterStartBehaviorInvalid(t *testing.T) {
	a, _, _, _ := newSimAdapter(t)
	test.That(t, a.StartBehavior(nil), test.ShouldNotBeNil)
	test.That(t, a.StartBehavior(behavior.NavigateToPose{}), test.ShouldNotBeNil)

	_, err := a.Step(context.Background())
	test.That(t, err, test.ShouldEqual, ErrNoActiveBehavior)
}

func TestAdapterBaseFailure(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)
	poses := sensors.NewLatest[spatialmath.Pose]("pose", logger)
	b := &failingBase{}
	a := NewAdapter(poses, nil, b, behavior.Dependencies{}, logger)

	test.That(t, a.StartBehavior(behavior.TurnInPlace{RotationAmount: math.Pi, AngularSpeed: 1}), test.ShouldBeNil)
	test.That(t, poses.Publish(spatialmath.NewPose(0, 0, 0)), test.ShouldBeNil)
	_, err := a.Step(ctx)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "motor controller offline")

	test.That(t, a.Stop(ctx), test.ShouldBeNil)
	test.That(t, b.stops, test.ShouldEqual, 1)
}

func TestWaitForPose(t *testing.T) {
	orig := poseWaitInterval
	poseWaitInterval = 5 * time.Millisecond
	defer func() { poseWaitInterval = orig }()

	ctx := context.Background()
	a, _, poses, _ := newSimAdapter(t)

	err := a.WaitForPose(ctx, 20*time.Millisecond)
	test.That(t, errors.Is(err, ErrNoPose), test.ShouldBeTrue)

	go func() {
		time.Sleep(10 * time.Millisecond)
		if err := poses.Publish(spatialmath.NewPose(3, 4, 0)); err != nil {
			t.Error(err)
		}
	}()
	test.That(t, a.WaitForPose(ctx, time.Second), test.ShouldBeNil)
	pose, ok := a.Pose()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pose.X, test.ShouldEqual, 3.0)
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	n := NewNoop(0, logging.NewTestLogger(t))
	test.That(t, n.StartBehavior(nil), test.ShouldNotBeNil)

	for round := 0; round < 2; round++ {
		test.That(t, n.StartBehavior(behavior.SearchForTarget{}), test.ShouldBeNil)
		for i := 1; i < DefaultNoopSteps; i++ {
			outcome, err := n.Step(ctx)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, outcome, test.ShouldEqual, behavior.Running)
		}
		outcome, err := n.Step(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, outcome, test.ShouldEqual, behavior.Success)
	}
}
