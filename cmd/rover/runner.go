package main

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.magellan.dev/rover/behavior"
	"go.magellan.dev/rover/components/base"
	"go.magellan.dev/rover/components/base/fake"
	"go.magellan.dev/rover/components/base/wheeled"
	motorfake "go.magellan.dev/rover/components/motor/fake"
	"go.magellan.dev/rover/config"
	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/mission"
	"go.magellan.dev/rover/robot"
	"go.magellan.dev/rover/sensors"
	"go.magellan.dev/rover/spatialmath"
	"go.magellan.dev/rover/statemachine"
	"go.magellan.dev/rover/vision"
	visionfake "go.magellan.dev/rover/vision/fake"
)

// simulation is the simulated rover hardware. Two motors drive a kinematic base and a camera
// looks for the mission's targets.
type simulation struct {
	left, right *motorfake.Motor
	base        *fake.Base
	camera      *visionfake.Camera
	wheels      wheeled.Config
	dt          float64
}

func newSimulation(cfg *config.Config, camera *visionfake.Camera, poses *sensors.Latest[spatialmath.Pose], logger logging.Logger) *simulation {
	return &simulation{
		left:   motorfake.NewMotor("left", logger.Sublogger("motor")),
		right:  motorfake.NewMotor("right", logger.Sublogger("motor")),
		base:   fake.NewBase(cfg.Sim.StartPose, poses, logger.Sublogger("base")),
		camera: camera,
		wheels: cfg.Base,
		dt:     cfg.TickPeriod().Seconds(),
	}
}

// step turns the motor powers into a base velocity, moves the base and looks for targets.
func (s *simulation) step() {
	cmd := base.FromWheelSpeeds(
		s.left.PowerPct()*s.wheels.MaxSpeedMPerSec,
		s.right.PowerPct()*s.wheels.MaxSpeedMPerSec,
		s.wheels.WidthM,
	)
	// the fake base never fails
	_ = s.base.SetVelocity(context.Background(), cmd)
	pose := s.base.Simulate(s.dt)
	s.camera.Detect(pose)
}

type runner struct {
	runID   string
	cfg     *config.Config
	machine *statemachine.Machine
	// adapter and sim are nil when running on the no-op robot.
	adapter *robot.Adapter
	sim     *simulation
	logger  logging.Logger
}

func newRunner(cfg *config.Config, noop bool, logger logging.Logger) (*runner, error) {
	m, err := mission.LoadFile(cfg.MissionFile, logger.Sublogger("mission"))
	if err != nil {
		return nil, err
	}
	if origin := cfg.OriginPoint(); origin != nil {
		m.SetOrigin(origin)
	}

	r := &runner{runID: uuid.NewString(), cfg: cfg, logger: logger}
	var rob robot.Robot
	if noop {
		rob = robot.NewNoop(robot.DefaultNoopSteps, logger.Sublogger("robot"))
	} else {
		if m.Len() == 0 {
			return nil, errors.New("cannot simulate an empty mission")
		}
		poses := sensors.NewLatest[spatialmath.Pose]("pose", logger.Sublogger("sensors"))
		detections := sensors.NewLatest[*vision.Detection]("detections", logger.Sublogger("sensors"))

		targets := make([]r3.Vector, 0, len(m.Targets()))
		for _, wp := range m.Targets() {
			targets = append(targets, spatialmath.GeoPointToPoint(wp.Point, m.Origin()))
		}
		camera, err := visionfake.NewCamera(targets, cfg.CameraFOV(), cfg.Sim.CameraRangeM, detections, logger.Sublogger("camera"))
		if err != nil {
			return nil, err
		}
		r.sim = newSimulation(cfg, camera, poses, logger)
		wb, err := wheeled.NewWheeledBase(cfg.Base,
			[]wheeled.Motor{r.sim.left}, []wheeled.Motor{r.sim.right}, logger.Sublogger("base"))
		if err != nil {
			return nil, err
		}
		r.adapter = robot.NewAdapter(poses, detections, wb, behavior.Dependencies{}, logger.Sublogger("robot"))
		rob = r.adapter
	}

	r.machine = statemachine.NewMachine(rob, cfg.MachineOptions(), logger.Sublogger("statemachine"))
	if err := r.machine.StartMission(m); err != nil {
		return nil, err
	}
	return r, nil
}

// tick advances the simulation, if any, and then the state machine by one step.
func (r *runner) tick(ctx context.Context) (statemachine.State, error) {
	if r.sim != nil {
		r.sim.step()
	}
	return r.machine.Tick(ctx)
}

// run ticks until the mission ends or ctx is done, and always leaves the base stopped.
func (r *runner) run(ctx context.Context, clk clock.Clock) (err error) {
	defer func() {
		err = multierr.Combine(err, r.stop())
	}()

	if r.adapter != nil {
		r.sim.step()
		if err := r.adapter.WaitForPose(ctx, r.cfg.PoseWaitTimeout); err != nil {
			return err
		}
	}

	r.logger.Infow("mission started",
		"run_id", r.runID,
		"waypoints", r.machine.Mission().Len(),
		"tick_period", r.cfg.TickPeriod().String(),
	)
	start := clk.Now()
	ticker := clk.Ticker(r.cfg.TickPeriod())
	defer ticker.Stop()
	for !r.machine.IsFinished() {
		select {
		case <-ctx.Done():
			r.logger.Info("interrupted, stopping")
			return ctx.Err()
		case <-ticker.C:
		}
		if _, err := r.tick(ctx); err != nil {
			return err
		}
	}

	r.logger.Infow("mission finished",
		"run_id", r.runID,
		"elapsed", clk.Since(start).Round(time.Millisecond).String(),
		"waypoint_index", r.machine.Mission().Index(),
	)
	if r.adapter != nil {
		r.logger.Infow("path", "poses", len(r.adapter.Path()), "length_m", r.adapter.PathLength())
	}
	return r.machine.Err()
}

func (r *runner) stop() error {
	if r.adapter == nil {
		return nil
	}
	// the caller's context may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return r.adapter.Stop(ctx)
}
