package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type AABB struct {
	center  mgl32.Vec3
	extents mgl32.Vec3 // size in respective axis, they extend from the center to the max and min
}

func NewAABB(center, extents mgl32.Vec3) AABB {
	return AABB{
		center:  center,
		extents: extents,
	}
}

func NewAABBFromMin(min, extents mgl32.Vec3) AABB {
	return AABB{
		center:  min.Add(extents.Mul(0.5)),
		extents: extents,
	}
}

func (a AABB) Min() mgl32.Vec3 {
	return a.center.Sub(a.extents.Mul(0.5))
}

func (a AABB) Max() mgl32.Vec3 {
	return a.center.Add(a.extents.Mul(0.5))
}

func (a AABB) Center() mgl32.Vec3 {
	return a.center
}

func (a AABB) Extents() mgl32.Vec3 {
	return a.extents
}

func (a AABB) Contains(vec3 mgl32.Vec3) bool {
	minVal := a.Min()
	maxVal := a.Max()
	return vec3.X() >= minVal.X() && vec3.X() <= maxVal.X() &&
		vec3.Y() >= minVal.Y() && vec3.Y() <= maxVal.Y() &&
		vec3.Z() >= minVal.Z() && vec3.Z() <= maxVal.Z()
}

// Transform returns the box enclosing all eight corners of a after applying m.
func (a AABB) Transform(m mgl32.Mat4) AABB {
	lo, hi := a.Min(), a.Max()
	newMin := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	newMax := newMin.Mul(-1)
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{lo.X(), lo.Y(), lo.Z()}
		if i&1 != 0 {
			corner[0] = hi.X()
		}
		if i&2 != 0 {
			corner[1] = hi.Y()
		}
		if i&4 != 0 {
			corner[2] = hi.Z()
		}
		p := mgl32.TransformCoordinate(corner, m)
		for axis := 0; axis < 3; axis++ {
			newMin[axis] = min(newMin[axis], p[axis])
			newMax[axis] = max(newMax[axis], p[axis])
		}
	}
	return NewAABBFromMin(newMin, newMax.Sub(newMin))
}

func abs(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

func absVec(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{abs(v.X()), abs(v.Y()), abs(v.Z())}
}
