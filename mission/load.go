package mission

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"

	"go.magellan.dev/rover/logging"
)

// Load reads a mission from r. Each record is "latitude, longitude, role"; blank lines and
// lines starting with # are skipped.
func Load(r io.Reader, logger logging.Logger) (*Mission, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	var waypoints []Waypoint
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading mission")
		}
		line, _ := reader.FieldPos(0)

		wp, err := parseWaypoint(record)
		if err != nil {
			return nil, errors.Wrapf(err, "mission line %d", line)
		}
		waypoints = append(waypoints, wp)
	}

	m := New(waypoints, nil)
	logger.Infow("loaded mission", "waypoints", m.Len(), "summary", m.Summary().String())
	for i, wp := range waypoints {
		logger.Infow("waypoint", "index", i, "role", wp.Role.String(), "lat", wp.Point.Lat(), "lng", wp.Point.Lng())
	}
	return m, nil
}

// LoadFile reads a mission from the file at path.
func LoadFile(path string, logger logging.Logger) (*Mission, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening mission file")
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnw("failed to close mission file", "path", path, "error", err)
		}
	}()
	m, err := Load(f, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %q", path)
	}
	return m, nil
}

func parseWaypoint(record []string) (Waypoint, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	if err != nil {
		return Waypoint{}, errors.Wrap(err, "parsing latitude")
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return Waypoint{}, errors.Wrap(err, "parsing longitude")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Waypoint{}, errors.Errorf("coordinate (%v, %v) is out of range", lat, lng)
	}
	role, err := ParseRole(record[2])
	if err != nil {
		return Waypoint{}, err
	}
	return Waypoint{Point: geo.NewPoint(lat, lng), Role: role}, nil
}
