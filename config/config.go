// Package config defines the rover runner configuration and how it is read from disk.
package config

import (
	"math"
	"time"

	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"

	"go.magellan.dev/rover/behavior"
	"go.magellan.dev/rover/components/base/wheeled"
	"go.magellan.dev/rover/logging"
	"go.magellan.dev/rover/spatialmath"
	"go.magellan.dev/rover/statemachine"
	"go.magellan.dev/rover/utils"
)

// Defaults for fields left unset.
const (
	DefaultTickRateHz       = 10.0
	DefaultPoseWaitTimeout  = 10 * time.Second
	DefaultBaseWidthM       = 1.0
	DefaultBaseMaxSpeed     = 1.0
	DefaultCameraFOVDegrees = 60.0
	DefaultCameraRangeM     = 10.0
)

// Config describes a rover run.
type Config struct {
	MissionFile                string         `json:"mission_file"`
	TickRateHz                 float64        `json:"tick_rate_hz"`
	Origin                     *GeoPoint      `json:"origin,omitempty"`
	WaypointDistanceThresholdM float64        `json:"waypoint_distance_threshold_m"`
	PoseWaitTimeout            time.Duration  `json:"pose_wait_timeout"`
	Approach                   ApproachConfig `json:"approach"`
	Turn                       TurnConfig     `json:"turn"`
	Base                       wheeled.Config `json:"base"`
	Sim                        SimConfig      `json:"sim"`
	// LogLevel overrides the command line's level when set.
	LogLevel string `json:"log_level,omitempty"`

	// ConfigFilePath is where the config was read from, if anywhere.
	ConfigFilePath string `json:"-"`
}

// GeoPoint is a latitude and longitude in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point converts gp for use with the geo helpers.
func (gp GeoPoint) Point() *geo.Point {
	return geo.NewPoint(gp.Lat, gp.Lng)
}

// Validate ensures the coordinates are on the globe.
func (gp GeoPoint) Validate(path string) error {
	if math.Abs(gp.Lat) > 90 || math.Abs(gp.Lng) > 180 {
		return utils.NewConfigValidationError(path, errors.Errorf("coordinate (%v, %v) is out of range", gp.Lat, gp.Lng))
	}
	return nil
}

// ApproachConfig tunes the approach behavior.
type ApproachConfig struct {
	JiggleAfter time.Duration `json:"jiggle_after"`
	GiveUpAfter time.Duration `json:"give_up_after"`
}

// TurnConfig tunes turning behaviors.
type TurnConfig struct {
	SearchSpeedRPM float64 `json:"search_speed_rpm"`
}

// SimConfig describes the simulated rover used when no hardware is attached.
type SimConfig struct {
	StartPose        spatialmath.Pose `json:"start_pose"`
	CameraFOVDegrees float64          `json:"camera_fov_deg"`
	CameraRangeM     float64          `json:"camera_range_m"`
}

// applyDefaults fills every unset field.
func (cfg *Config) applyDefaults() {
	if cfg.TickRateHz == 0 {
		cfg.TickRateHz = DefaultTickRateHz
	}
	if cfg.WaypointDistanceThresholdM == 0 {
		cfg.WaypointDistanceThresholdM = statemachine.DefaultWaypointDistanceThreshold
	}
	if cfg.PoseWaitTimeout == 0 {
		cfg.PoseWaitTimeout = DefaultPoseWaitTimeout
	}
	if cfg.Approach.JiggleAfter == 0 {
		cfg.Approach.JiggleAfter = behavior.DefaultJiggleAfter
	}
	if cfg.Approach.GiveUpAfter == 0 {
		cfg.Approach.GiveUpAfter = behavior.DefaultGiveUpAfter
	}
	if cfg.Turn.SearchSpeedRPM == 0 {
		cfg.Turn.SearchSpeedRPM = behavior.DefaultSearchSpeedRPM
	}
	if cfg.Base.WidthM == 0 {
		cfg.Base.WidthM = DefaultBaseWidthM
	}
	if cfg.Base.MaxSpeedMPerSec == 0 {
		cfg.Base.MaxSpeedMPerSec = DefaultBaseMaxSpeed
	}
	if cfg.Sim.CameraFOVDegrees == 0 {
		cfg.Sim.CameraFOVDegrees = DefaultCameraFOVDegrees
	}
	if cfg.Sim.CameraRangeM == 0 {
		cfg.Sim.CameraRangeM = DefaultCameraRangeM
	}
}

// Validate returns an error if the config is unusable. path is used in error messages.
func (cfg *Config) Validate(path string) error {
	if cfg.MissionFile == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "mission_file")
	}
	for field, value := range map[string]float64{
		"tick_rate_hz":                  cfg.TickRateHz,
		"waypoint_distance_threshold_m": cfg.WaypointDistanceThresholdM,
		"turn.search_speed_rpm":         cfg.Turn.SearchSpeedRPM,
		"sim.camera_range_m":            cfg.Sim.CameraRangeM,
	} {
		if !(value > 0) {
			return utils.NewConfigValidationPositiveFieldError(path, field, value)
		}
	}
	if cfg.PoseWaitTimeout <= 0 {
		return utils.NewConfigValidationPositiveFieldError(path, "pose_wait_timeout", cfg.PoseWaitTimeout.Seconds())
	}
	if _, _, err := cfg.Level(); err != nil {
		return utils.NewConfigValidationError(path+".log_level", err)
	}
	if cfg.Origin != nil {
		if err := cfg.Origin.Validate(path + ".origin"); err != nil {
			return err
		}
	}
	if err := cfg.ApproachKind().Validate(); err != nil {
		return utils.NewConfigValidationError(path+".approach", err)
	}
	if err := cfg.Base.Validate(path + ".base"); err != nil {
		return err
	}
	if cfg.Sim.CameraFOVDegrees <= 0 || cfg.Sim.CameraFOVDegrees >= 360 {
		return utils.NewConfigValidationError(path,
			errors.Errorf("%q must be in (0, 360), got %v", "sim.camera_fov_deg", cfg.Sim.CameraFOVDegrees))
	}
	return nil
}

// TickPeriod returns the time between state machine ticks.
func (cfg *Config) TickPeriod() time.Duration {
	return time.Duration(float64(time.Second) / cfg.TickRateHz)
}

// OriginPoint returns the configured origin, or nil to use the first waypoint.
func (cfg *Config) OriginPoint() *geo.Point {
	if cfg.Origin == nil {
		return nil
	}
	return cfg.Origin.Point()
}

// Level returns the configured log level. ok is false when log_level is unset.
func (cfg *Config) Level() (level logging.Level, ok bool, err error) {
	if cfg.LogLevel == "" {
		return logging.INFO, false, nil
	}
	level, err = logging.LevelFromString(cfg.LogLevel)
	return level, err == nil, err
}

// ApproachKind returns the approach behavior the config asks for.
func (cfg *Config) ApproachKind() behavior.ApproachTarget {
	return behavior.ApproachTarget{JiggleAfter: cfg.Approach.JiggleAfter, GiveUpAfter: cfg.Approach.GiveUpAfter}
}

// MachineOptions returns the state machine options the config asks for.
func (cfg *Config) MachineOptions() statemachine.Options {
	return statemachine.Options{
		WaypointDistanceThreshold: cfg.WaypointDistanceThresholdM,
		SearchAngularSpeed:        behavior.RPMToAngularSpeed(cfg.Turn.SearchSpeedRPM),
		Approach:                  cfg.ApproachKind(),
	}
}

// CameraFOV returns the simulated camera's horizontal field of view in radians.
func (cfg *Config) CameraFOV() float64 {
	return utils.DegToRad(cfg.Sim.CameraFOVDegrees)
}
