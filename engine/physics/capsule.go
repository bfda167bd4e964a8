package physics

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

type axisScale struct {
	value float32
	axis  Axis
}

// FitCapsule places a capsule along the longest axis of scale. The height is
// that axis' scale, the radius half of the second longest. Equal values keep
// their axis order, so the highest axis among equal maxima wins.
func FitCapsule(scale mgl32.Vec3) *CapsuleCollider {
	axes := []axisScale{
		{scale.X(), AxisX},
		{scale.Y(), AxisY},
		{scale.Z(), AxisZ},
	}
	sort.SliceStable(axes, func(i, j int) bool {
		return axes[i].value < axes[j].value
	})
	longest, second := axes[2], axes[1]
	return &CapsuleCollider{
		Height:    longest.value,
		Radius:    second.value * .5,
		Direction: longest.axis,
	}
}
