package vision

import (
	"testing"

	"go.viam.com/test"
)

func TestDetection(t *testing.T) {
	left := &Detection{X: 0.25, Y: 0.5}
	test.That(t, left.HorizontalError(), test.ShouldAlmostEqual, 0.25)
	right := &Detection{X: 0.75, Y: 0.5}
	test.That(t, right.HorizontalError(), test.ShouldAlmostEqual, -0.25)
	test.That(t, Centered().HorizontalError(), test.ShouldEqual, 0.0)

	test.That(t, left.Validate(), test.ShouldBeNil)
	test.That(t, (&Detection{X: 1.5}).Validate(), test.ShouldNotBeNil)
	test.That(t, (&Detection{X: 0.5, Y: -0.1}).Validate(), test.ShouldNotBeNil)
	test.That(t, (&Detection{X: 0.5, Width: -1}).Validate(), test.ShouldNotBeNil)

	test.That(t, left.String(), test.ShouldEqual, "Detection(x=0.25, y=0.50, score=0.00)")
}
