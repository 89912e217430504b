package statemachine

import (
	"context"

	"github.com/pkg/errors"

	"go.magellan.dev/rover/behavior"
	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/mission"
	"go.magellan.dev/rover/robot"
)

var (
	// ErrMissionFinished is returned when ticking or applying events after End.
	ErrMissionFinished = errors.New("mission finished")
	// ErrInvalidTransition is returned when no transition matches an event in the current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNoMission is returned when ticking before a mission was started.
	ErrNoMission = errors.New("no mission started")
)

// DefaultWaypointDistanceThreshold is how close, in metres, the rover has to get to a waypoint.
const DefaultWaypointDistanceThreshold = 1.0

// Options tune the behaviors the machine starts.
type Options struct {
	// WaypointDistanceThreshold defaults to DefaultWaypointDistanceThreshold.
	WaypointDistanceThreshold float64
	// SearchAngularSpeed is passed to SearchForTarget; zero means its default.
	SearchAngularSpeed float64
	// Approach is the ApproachTarget started on entering ApproachingTarget. Zero timers mean
	// its defaults.
	Approach behavior.ApproachTarget
}

// Machine is the mission state machine. It is not safe for concurrent use.
type Machine struct {
	robot   robot.Robot
	opts    Options
	logger  logging.Logger
	mission *mission.Mission

	state State
	err   error
}

// NewMachine returns a machine in the Start state controlling r.
func NewMachine(r robot.Robot, opts Options, logger logging.Logger) *Machine {
	if opts.WaypointDistanceThreshold <= 0 {
		opts.WaypointDistanceThreshold = DefaultWaypointDistanceThreshold
	}
	return &Machine{robot: r, opts: opts, logger: logger, state: Start}
}

// StartMission hands the machine the mission to run. It must be called before the first Tick.
func (sm *Machine) StartMission(m *mission.Mission) error {
	if sm.state != Start {
		return errors.Errorf("cannot start a mission in state %s", sm.state)
	}
	if m == nil {
		return ErrNoMission
	}
	sm.mission = m
	return nil
}

// State returns the current state.
func (sm *Machine) State() State {
	return sm.state
}

// IsFinished reports whether the machine reached End.
func (sm *Machine) IsFinished() bool {
	return sm.state.IsTerminal()
}

// Err returns the fatal error that ended the mission, if any.
func (sm *Machine) Err() error {
	return sm.err
}

// Mission returns the mission being run.
func (sm *Machine) Mission() *mission.Mission {
	return sm.mission
}

// Tick runs one step of the current state and returns the state after it. Errors from the
// robot are fatal: the machine moves to End and the error is returned and kept in Err.
func (sm *Machine) Tick(ctx context.Context) (State, error) {
	if sm.IsFinished() {
		return sm.state, ErrMissionFinished
	}
	if sm.mission == nil {
		return sm.state, ErrNoMission
	}

	sm.logger.Infow("step", "state", sm.state.String())
	var err error
	switch sm.state {
	case Start:
		err = sm.Apply(StartMission)
	case Idling:
		err = sm.stepIdling()
	case NavigatingToWaypoint:
		err = sm.stepBehavior(ctx, ReachedWaypoint)
	case SearchingForTarget:
		err = sm.stepBehavior(ctx, TargetFound)
	case ApproachingTarget:
		err = sm.Apply(NearTarget)
	case EnsuringContact:
		err = sm.Apply(ContactMade)
	case End:
	default:
		err = errors.Errorf("no handler for state %s", sm.state)
	}
	if err != nil && !sm.IsFinished() {
		err = sm.fail(err)
	}
	return sm.state, err
}

func (sm *Machine) stepIdling() error {
	sm.mission.Advance()
	if sm.mission.IsComplete() {
		return sm.Apply(MissionComplete)
	}
	return sm.Apply(NewWaypoint)
}

func (sm *Machine) stepBehavior(ctx context.Context, onSuccess Event) error {
	outcome, err := sm.robot.Step(ctx)
	if err != nil {
		return errors.Wrapf(err, "stepping behavior in %s", sm.state)
	}
	switch outcome {
	case behavior.Success:
		return sm.Apply(onSuccess)
	case behavior.Error:
		return sm.Apply(BehaviorFailed)
	case behavior.None, behavior.Running:
		return nil
	default:
		return errors.Errorf("unexpected behavior outcome %v", outcome)
	}
}

// Apply fires the first transition matching event in the current state and runs its entry
// action. The state is unchanged when nothing matches. A failing entry action ends the mission.
func (sm *Machine) Apply(event Event) error {
	if sm.IsFinished() {
		return ErrMissionFinished
	}
	for _, t := range transitions {
		if !t.matches(sm.state, event, sm.mission) {
			continue
		}
		sm.logger.Infow("transition", "from", sm.state.String(), "event", event.String(), "to", t.to.String())
		sm.state = t.to
		if t.entry == nil {
			return nil
		}
		if err := t.entry(sm); err != nil {
			return sm.fail(errors.Wrapf(err, "entering %s", t.to))
		}
		return nil
	}
	return errors.Wrapf(ErrInvalidTransition, "%s in state %s", event, sm.state)
}

// fail records err and moves to End.
func (sm *Machine) fail(err error) error {
	sm.logger.Errorw("mission failed", "state", sm.state.String(), "error", err)
	sm.err = err
	sm.state = End
	return err
}

func (sm *Machine) enterIdling() error {
	sm.mission.Reset()
	sm.logger.Infow("mission started", "waypoints", sm.mission.Len(), "summary", sm.mission.Summary().String())
	return nil
}

func (sm *Machine) enterNavigating() error {
	target, err := sm.mission.TargetPose()
	if err != nil {
		return err
	}
	sm.logger.Infow("navigating to waypoint", "index", sm.mission.Index(), "target", target.String())
	return sm.robot.StartBehavior(behavior.NavigateToPose{
		Target:            target,
		DistanceThreshold: sm.opts.WaypointDistanceThreshold,
	})
}

// enterApproaching arms the approach controller. The machine still moves on to
// EnsuringContact on the next tick without stepping it.
func (sm *Machine) enterApproaching() error {
	sm.logger.Infow("approaching target", "index", sm.mission.Index())
	return sm.robot.StartBehavior(sm.opts.Approach)
}

func (sm *Machine) enterSearching() error {
	sm.logger.Infow("searching for target", "index", sm.mission.Index())
	return sm.robot.StartBehavior(behavior.SearchForTarget{AngularSpeed: sm.opts.SearchAngularSpeed})
}
