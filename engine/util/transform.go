package util

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a local translation, rotation and scale relative to a parent.
type Transform struct {
	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3
}

func NewDefaultTransform() Transform {
	return Transform{
		translation: mgl32.Vec3{0, 0, 0},
		rotation:    mgl32.QuatIdent(),
		scale:       mgl32.Vec3{1, 1, 1},
	}
}

func NewTransform(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) Transform {
	return Transform{
		translation: position,
		rotation:    rotation,
		scale:       scale,
	}
}

// NewTransformFromMatrix decomposes an affine matrix without shear.
func NewTransformFromMatrix(m mgl32.Mat4) Transform {
	scale := ExtractScale(m)
	return Transform{
		translation: ExtractPosition(m),
		rotation:    ExtractRotation(m, scale),
		scale:       scale,
	}
}

func (t Transform) GetLocalMatrix() mgl32.Mat4 {
	translation := t.GetTranslationMatrix()
	rotation := t.GetRotationMatrix()
	scale := t.GetScaleMatrix()
	return translation.Mul4(rotation).Mul4(scale) // This actually represents S * R * T.. order is reversed because of how matrices work
}

func (t Transform) GetScaleMatrix() mgl32.Mat4 {
	return mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z())
}

func (t Transform) GetRotationMatrix() mgl32.Mat4 {
	return t.rotation.Mat4()
}

func (t Transform) GetTranslationMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.translation.X(), t.translation.Y(), t.translation.Z())
}

func (t Transform) GetPosition() mgl32.Vec3 {
	return t.translation
}

func (t Transform) GetRotation() mgl32.Quat {
	return t.rotation
}

func (t Transform) GetScale() mgl32.Vec3 {
	return t.scale
}

func (t *Transform) SetPosition(position mgl32.Vec3) {
	t.translation = position
}

func (t *Transform) SetRotation(rotation mgl32.Quat) {
	t.rotation = rotation
}

func (t *Transform) SetScale(scale mgl32.Vec3) {
	t.scale = scale
}
