package util

import (
	"github.com/go-gl/mathgl/mgl32"
)

func ExtractPosition(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// ExtractScale returns the length of each basis column. Reflections and
// shearing are not recovered.
func ExtractScale(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
}

// ExtractRotation removes the given scale from the basis before converting it.
func ExtractRotation(m mgl32.Mat4, scale mgl32.Vec3) mgl32.Quat {
	basis := m.Mat3()
	for col := 0; col < 3; col++ {
		s := scale[col]
		if s == 0 {
			return mgl32.QuatIdent()
		}
		for row := 0; row < 3; row++ {
			basis.Set(row, col, basis.At(row, col)/s)
		}
	}
	return mgl32.Mat4ToQuat(basis.Mat4()).Normalize()
}

// Vec3FromArray converts the [3]float32 layout used by glTF.
func Vec3FromArray(v [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// QuatFromArray converts a glTF (x, y, z, w) rotation.
func QuatFromArray(q [4]float32) mgl32.Quat {
	return mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}
}
