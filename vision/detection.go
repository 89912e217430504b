// Package vision defines the target detections consumed by the search and approach behaviors.
package vision

import (
	"fmt"

	"github.com/pkg/errors"
)

// Detection is a single detected target marker in normalized image coordinates.
// X is the horizontal center of the target as a fraction of the image width: 0 is the left
// edge and 1 the right edge. Y, Width and Height use the same normalization.
type Detection struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Score  float64 `json:"score"`
}

// Centered returns a detection of a target in the middle of the image.
func Centered() *Detection {
	return &Detection{X: 0.5, Y: 0.5}
}

// HorizontalError returns how far the target is from the image center. Positive values mean
// the target is left of center.
func (d *Detection) HorizontalError() float64 {
	return 0.5 - d.X
}

// Validate checks that the normalized coordinates are within the image.
func (d *Detection) Validate() error {
	if !(d.X >= 0 && d.X <= 1) {
		return errors.Errorf("detection x must be in [0, 1], got %v", d.X)
	}
	if !(d.Y >= 0 && d.Y <= 1) {
		return errors.Errorf("detection y must be in [0, 1], got %v", d.Y)
	}
	if d.Width < 0 || d.Height < 0 {
		return errors.Errorf("detection size must not be negative, got %vx%v", d.Width, d.Height)
	}
	return nil
}

func (d *Detection) String() string {
	return fmt.Sprintf("Detection(x=%.2f, y=%.2f, score=%.2f)", d.X, d.Y, d.Score)
}
