package statemachine

import (
	"github.com/samber/lo"

	"go.magellan.dev/rover/mission"
)

// guard decides whether a transition may fire. It only looks at mission data.
type guard func(m *mission.Mission) bool

// entryAction runs when a transition lands in its target state.
type entryAction func(sm *Machine) error

type transition struct {
	from  State
	event Event
	to    State
	guard guard
	entry entryAction
}

// transitions is the mission state machine. Rows are tried in order and the first row whose
// state and event match and whose guard passes fires.
//
//nolint:gochecknoglobals
var transitions = []transition{
	{from: Start, event: StartMission, to: Idling, entry: (*Machine).enterIdling},
	{from: Idling, event: MissionComplete, to: End, guard: isComplete},
	{from: Idling, event: NewWaypoint, to: NavigatingToWaypoint, guard: not(isComplete), entry: (*Machine).enterNavigating},
	{from: NavigatingToWaypoint, event: ReachedWaypoint, to: SearchingForTarget, guard: requiresTargetSearch, entry: (*Machine).enterSearching},
	{from: NavigatingToWaypoint, event: ReachedWaypoint, to: Idling, guard: not(requiresTargetSearch)},
	// NavigateToPose never fails today; the row stays so a future failure ends the mission.
	{from: NavigatingToWaypoint, event: BehaviorFailed, to: End},
	{from: SearchingForTarget, event: TargetFound, to: ApproachingTarget, entry: (*Machine).enterApproaching},
	{from: SearchingForTarget, event: BehaviorFailed, to: End},
	{from: ApproachingTarget, event: NearTarget, to: EnsuringContact},
	{from: EnsuringContact, event: ContactMade, to: Idling},
	{from: anyState, event: Fatal, to: End},
}

func (t transition) matches(from State, event Event, m *mission.Mission) bool {
	if t.event != event || (t.from != from && t.from != anyState) {
		return false
	}
	return t.guard == nil || t.guard(m)
}

func isComplete(m *mission.Mission) bool {
	return m.IsComplete()
}

func requiresTargetSearch(m *mission.Mission) bool {
	wp, err := m.Current()
	if err != nil {
		return false
	}
	return mission.RequiresTargetSearch(wp)
}

func not(g guard) guard {
	return func(m *mission.Mission) bool {
		return !g(m)
	}
}

// NextStates returns the states reachable from a state in one transition.
func NextStates(from State) []State {
	if from.IsTerminal() {
		return nil
	}
	return lo.Uniq(lo.FilterMap(transitions, func(t transition, _ int) (State, bool) {
		return t.to, t.from == from || t.from == anyState
	}))
}

// IsValidTransition reports whether the table has a row from one state to another.
func IsValidTransition(from, to State) bool {
	return lo.Contains(NextStates(from), to)
}
