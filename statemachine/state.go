// Package statemachine sequences motion behaviors over a mission. It is driven by an external
// fixed-rate tick: each Tick runs the handler for the current state, which either does mission
// bookkeeping or steps the robot's active behavior, and then applies the matching transition
// from a static table.
package statemachine

import "fmt"

// State is a mission state.
type State int

// The mission states. Start is initial and End is terminal.
const (
	Start State = iota
	Idling
	NavigatingToWaypoint
	SearchingForTarget
	ApproachingTarget
	EnsuringContact
	End
)

// anyState matches every state in a transition row.
const anyState State = -1

var stateNames = map[State]string{
	Start:                "START",
	Idling:               "IDLING",
	NavigatingToWaypoint: "NAVIGATING_TO_WAYPOINT",
	SearchingForTarget:   "SEARCHING_FOR_TARGET",
	ApproachingTarget:    "APPROACHING_TARGET",
	EnsuringContact:      "ENSURING_CONTACT",
	End:                  "END",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// AllStates returns every state in declaration order.
func AllStates() []State {
	return []State{Start, Idling, NavigatingToWaypoint, SearchingForTarget, ApproachingTarget, EnsuringContact, End}
}

// IsTerminal reports whether no transitions leave s.
func (s State) IsTerminal() bool {
	return s == End
}

// Event triggers a transition.
type Event int

// The events fired by the state handlers.
const (
	StartMission Event = iota
	NewWaypoint
	MissionComplete
	ReachedWaypoint
	TargetFound
	NearTarget
	ContactMade
	BehaviorFailed
	// Fatal ends the mission from any state.
	Fatal
)

var eventNames = map[Event]string{
	StartMission:    "START_MISSION",
	NewWaypoint:     "NEW_WAYPOINT",
	MissionComplete: "MISSION_COMPLETE",
	ReachedWaypoint: "REACHED_WAYPOINT",
	TargetFound:     "TARGET_FOUND",
	NearTarget:      "NEAR_TARGET",
	ContactMade:     "CONTACT_MADE",
	BehaviorFailed:  "BEHAVIOR_FAILED",
	Fatal:           "FATAL",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Event(%d)", int(e))
}
