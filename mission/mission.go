// Package mission holds the ordered list of GPS waypoints a rover visits and the cursor that
// tracks its progress through them.
package mission

import (
	"fmt"
	"strings"

	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.magellan.dev/rover/spatialmath"
)

var (
	// ErrInvalidRole is returned when a waypoint role is not one of route, bonus or goal.
	ErrInvalidRole = errors.New("invalid waypoint role")
	// ErrNoCurrentWaypoint is returned when the cursor is before the first or past the last waypoint.
	ErrNoCurrentWaypoint = errors.New("no current waypoint")
)

// Role says what the rover has to do at a waypoint.
type Role int

// The known roles. Route waypoints are passed through; bonus and goal waypoints carry a target.
const (
	Route Role = iota
	Bonus
	Goal
)

func (r Role) String() string {
	switch r {
	case Route:
		return "route"
	case Bonus:
		return "bonus"
	case Goal:
		return "goal"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole parses a role name, ignoring case and surrounding whitespace.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "route":
		return Route, nil
	case "bonus":
		return Bonus, nil
	case "goal":
		return Goal, nil
	default:
		return 0, errors.Wrapf(ErrInvalidRole, "%q", s)
	}
}

// Waypoint is a single stop on a mission.
type Waypoint struct {
	Point *geo.Point
	Role  Role
}

func (w Waypoint) String() string {
	return fmt.Sprintf("%s waypoint at (%.7f, %.7f)", w.Role, w.Point.Lat(), w.Point.Lng())
}

// RequiresTargetSearch reports whether the rover has to find a target at w.
func RequiresTargetSearch(w Waypoint) bool {
	return w.Role != Route
}

// Mission is an ordered sequence of waypoints and a cursor into it. The cursor starts before
// the first waypoint and only moves forward.
type Mission struct {
	waypoints []Waypoint
	cursor    int
	origin    *geo.Point
}

// New returns a mission over waypoints whose local frame is centered on origin. A nil origin
// means the first waypoint.
func New(waypoints []Waypoint, origin *geo.Point) *Mission {
	m := &Mission{waypoints: waypoints, origin: origin}
	m.Reset()
	return m
}

// Reset moves the cursor back before the first waypoint.
func (m *Mission) Reset() {
	m.cursor = -1
}

// Advance moves the cursor to the next waypoint.
func (m *Mission) Advance() {
	m.cursor++
}

// IsComplete reports whether the cursor has moved past the last waypoint.
func (m *Mission) IsComplete() bool {
	return m.cursor >= len(m.waypoints)
}

// Index returns the cursor.
func (m *Mission) Index() int {
	return m.cursor
}

// Len returns the number of waypoints.
func (m *Mission) Len() int {
	return len(m.waypoints)
}

// Waypoints returns every waypoint in order.
func (m *Mission) Waypoints() []Waypoint {
	return append([]Waypoint(nil), m.waypoints...)
}

// Current returns the waypoint under the cursor.
func (m *Mission) Current() (Waypoint, error) {
	if m.cursor < 0 || m.cursor >= len(m.waypoints) {
		return Waypoint{}, errors.Wrapf(ErrNoCurrentWaypoint, "cursor %d of %d waypoints", m.cursor, len(m.waypoints))
	}
	return m.waypoints[m.cursor], nil
}

// Origin returns the point the local frame is centered on, or nil for an empty mission
// without an explicit origin.
func (m *Mission) Origin() *geo.Point {
	if m.origin != nil {
		return m.origin
	}
	if len(m.waypoints) == 0 {
		return nil
	}
	return m.waypoints[0].Point
}

// SetOrigin changes the point the local frame is centered on.
func (m *Mission) SetOrigin(origin *geo.Point) {
	m.origin = origin
}

// TargetPose returns the current waypoint in the local frame.
func (m *Mission) TargetPose() (spatialmath.Pose, error) {
	wp, err := m.Current()
	if err != nil {
		return spatialmath.Pose{}, err
	}
	return spatialmath.GeoPointToPose(wp.Point, m.Origin()), nil
}

// Targets returns the waypoints that carry a target.
func (m *Mission) Targets() []Waypoint {
	return lo.Filter(m.waypoints, func(w Waypoint, _ int) bool {
		return RequiresTargetSearch(w)
	})
}

// Summary counts waypoints per role.
type Summary struct {
	Route int
	Bonus int
	Goal  int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d route, %d bonus, %d goal", s.Route, s.Bonus, s.Goal)
}

// Summary returns how many waypoints of each role the mission holds.
func (m *Mission) Summary() Summary {
	count := func(r Role) int {
		return lo.CountBy(m.waypoints, func(w Waypoint) bool { return w.Role == r })
	}
	return Summary{Route: count(Route), Bonus: count(Bonus), Goal: count(Goal)}
}
