package spatialmath

import (
	"github.com/golang/geo/r3"
	geo "github.com/kellydunn/golang-geo"
)

// GetCartesianDistance returns the east-west and north-south great circle distances, in metres,
// between p and q, measured through the corner point (p.Lat, q.Lng). Both are non-negative.
func GetCartesianDistance(p, q *geo.Point) (float64, float64) {
	mod := geo.NewPoint(p.Lat(), q.Lng())
	// GreatCircleDistance is in kilometers, convert to m
	distAlongLng := 1e3 * p.GreatCircleDistance(mod)
	distAlongLat := 1e3 * q.GreatCircleDistance(mod)
	return distAlongLng, distAlongLat
}

// GeoPointToPoint returns the position of point in a local east-north frame centered on origin.
// The projection is linearized about origin, so it is only accurate over short distances; a
// rover mission spans a few hundred metres at most.
func GeoPointToPoint(point, origin *geo.Point) r3.Vector {
	east, north := GetCartesianDistance(origin, point)
	if point.Lng() < origin.Lng() {
		east = -east
	}
	if point.Lat() < origin.Lat() {
		north = -north
	}
	return r3.Vector{X: east, Y: north, Z: 0}
}

// GeoPointToPose returns the local pose of point relative to origin, with zero heading.
func GeoPointToPose(point, origin *geo.Point) Pose {
	v := GeoPointToPoint(point, origin)
	return Pose{X: v.X, Y: v.Y}
}
