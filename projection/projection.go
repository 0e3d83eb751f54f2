// Package projection maps world points to viewport pixels through a camera.
package projection

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/thirdperson/ecs/component"
)

// Projector converts a world point into viewport pixels. It reports false when
// the point is not visible from pose.
type Projector interface {
	Project(pose component.Transform, lens component.Lens, world mgl32.Vec3) (mgl32.Vec2, bool)
}

// Perspective is a pinhole projector over a Width x Height viewport with the
// origin at the top-left corner and y growing downward.
type Perspective struct {
	Width  float32
	Height float32
}

func NewPerspective(width, height int) *Perspective {
	return &Perspective{Width: float32(width), Height: float32(height)}
}

// SetViewport updates the viewport size after a layout change.
func (p *Perspective) SetViewport(width, height int) {
	p.Width = float32(width)
	p.Height = float32(height)
}

func (p *Perspective) aspect() float32 {
	if p.Height <= 0 {
		return 1
	}
	return p.Width / p.Height
}

// ViewProjection returns projection * view for pose and lens.
func (p *Perspective) ViewProjection(pose component.Transform, lens component.Lens) mgl32.Mat4 {
	return mgl32.Perspective(lens.FovY, p.aspect(), lens.Near, lens.Far).Mul4(pose.View())
}

func (p *Perspective) Project(pose component.Transform, lens component.Lens, world mgl32.Vec3) (mgl32.Vec2, bool) {
	if p.Width <= 0 || p.Height <= 0 || lens.Near <= 0 || lens.Far <= lens.Near {
		return mgl32.Vec2{}, false
	}
	clip := p.ViewProjection(pose, lens).Mul4x1(world.Vec4(1))
	if clip.W() <= 0 {
		return mgl32.Vec2{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.X() < -1 || ndc.X() > 1 || ndc.Y() < -1 || ndc.Y() > 1 || ndc.Z() < -1 || ndc.Z() > 1 {
		return mgl32.Vec2{}, false
	}
	return p.toViewport(ndc), true
}

// ProjectSegment projects the segment a-b after clipping it against the near
// plane. Unlike Project it keeps points outside the viewport so lines can run
// off screen.
func (p *Perspective) ProjectSegment(pose component.Transform, lens component.Lens, a, b mgl32.Vec3) (mgl32.Vec2, mgl32.Vec2, bool) {
	if p.Width <= 0 || p.Height <= 0 || lens.Near <= 0 {
		return mgl32.Vec2{}, mgl32.Vec2{}, false
	}
	view := pose.View()
	va := view.Mul4x1(a.Vec4(1)).Vec3()
	vb := view.Mul4x1(b.Vec4(1)).Vec3()
	near := -lens.Near
	// camera looks down -Z, so visible points have z <= -near
	if va.Z() > near && vb.Z() > near {
		return mgl32.Vec2{}, mgl32.Vec2{}, false
	}
	if lens.Far > 0 && va.Z() < -lens.Far && vb.Z() < -lens.Far {
		return mgl32.Vec2{}, mgl32.Vec2{}, false
	}
	if va.Z() > near {
		va = clipNear(vb, va, near)
	} else if vb.Z() > near {
		vb = clipNear(va, vb, near)
	}
	proj := mgl32.Perspective(lens.FovY, p.aspect(), lens.Near, lens.Far)
	return p.toViewport(perspectiveDivide(proj, va)), p.toViewport(perspectiveDivide(proj, vb)), true
}

func clipNear(inside, outside mgl32.Vec3, near float32) mgl32.Vec3 {
	t := (near - inside.Z()) / (outside.Z() - inside.Z())
	return inside.Add(outside.Sub(inside).Mul(t))
}

func perspectiveDivide(proj mgl32.Mat4, v mgl32.Vec3) mgl32.Vec3 {
	clip := proj.Mul4x1(v.Vec4(1))
	return clip.Vec3().Mul(1 / clip.W())
}

func (p *Perspective) toViewport(ndc mgl32.Vec3) mgl32.Vec2 {
	return mgl32.Vec2{
		(ndc.X() + 1) * 0.5 * p.Width,
		(1 - ndc.Y()) * 0.5 * p.Height,
	}
}
