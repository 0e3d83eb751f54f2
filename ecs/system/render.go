package system

import (
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/thirdperson/common"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/projection"
)

// GridSpacing is the distance between floor grid lines.
const GridSpacing = 10

// RenderSystem draws every Wireframe through the active camera. Lines fade out
// toward the lens far plane.
type RenderSystem struct {
	projector *projection.Perspective
	camEntity ecs.Entity
}

func NewRenderSystem(projector *projection.Perspective) *RenderSystem {
	return &RenderSystem{projector: projector}
}

// Update is a no-op; drawing happens in Draw.
func (r *RenderSystem) Update(*ecs.World) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || r.projector == nil {
		return
	}

	if !r.camEntity.Valid() || !w.IsAlive(r.camEntity) {
		camEntity, err := w.Single(component.CameraTagComponent.Kind())
		if err != nil {
			return
		}
		r.camEntity = camEntity
	}
	camTransform, ok := ecs.Get(w, r.camEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}
	lens := component.DefaultLens()
	if rig, ok := ecs.Get(w, r.camEntity, component.CameraRigComponent.Kind()); ok {
		lens = rig.Lens
	}

	entities := w.Query(component.TransformComponent.Kind(), component.WireframeComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li := 0
		if layer, ok := ecs.Get(w, entities[i], component.RenderLayerComponent.Kind()); ok {
			li = layer.Index
		}
		lj := 0
		if layer, ok := ecs.Get(w, entities[j], component.RenderLayerComponent.Kind()); ok {
			lj = layer.Index
		}
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		wf, _ := ecs.Get(w, e, component.WireframeComponent.Kind())
		if t == nil || wf == nil {
			continue
		}

		clr := wf.Color
		if clr == nil {
			clr = color.White
		}
		if flash, ok := ecs.Get(w, e, component.WhiteFlashComponent.Kind()); ok && flash.On {
			clr = color.White
		}
		width := wf.Width
		if width <= 0 {
			width = 1
		}

		model := t.Matrix()
		for _, seg := range Segments(*wf) {
			a := model.Mul4x1(seg[0].Vec4(1)).Vec3()
			b := model.Mul4x1(seg[1].Vec4(1)).Vec3()
			p0, p1, ok := r.projector.ProjectSegment(*camTransform, lens, a, b)
			if !ok {
				continue
			}
			mid := a.Add(b).Mul(0.5)
			faded := Fog(clr, mid.Sub(camTransform.Translation).Len(), lens.Far)
			if faded.A == 0 {
				continue
			}
			vector.StrokeLine(screen, p0.X(), p0.Y(), p1.X(), p1.Y(), width, faded, wf.AntiAlias)
		}
	}
}

// Fog scales the alpha of clr linearly from full at the eye to zero at far.
func Fog(clr color.Color, distance, far float32) color.NRGBA {
	r, g, b, a := clr.RGBA()
	out := color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	if a > 0 {
		// undo premultiplication
		out.R = uint8(r * 0xff / a)
		out.G = uint8(g * 0xff / a)
		out.B = uint8(b * 0xff / a)
	}
	if far <= 0 {
		return out
	}
	k := common.Clamp(1-distance/far, 0, 1)
	out.A = uint8(float32(out.A) * k)
	return out
}

// Segments returns the wireframe's line segments in local space.
func Segments(wf component.Wireframe) [][2]mgl32.Vec3 {
	hx, hy, hz := wf.Size[0]/2, wf.Size[1]/2, wf.Size[2]/2
	switch wf.Shape {
	case component.MeshGrid:
		return gridSegments(hx, hz)
	case component.MeshArrow:
		// a flat arrowhead on top of a box, pointing along +Z
		segs := boxSegments(hx, hy, hz)
		tip := mgl32.Vec3{0, hy, hz * 1.6}
		return append(segs,
			[2]mgl32.Vec3{{-hx, hy, hz}, tip},
			[2]mgl32.Vec3{{hx, hy, hz}, tip},
		)
	default:
		return boxSegments(hx, hy, hz)
	}
}

func boxSegments(hx, hy, hz float32) [][2]mgl32.Vec3 {
	c := [8]mgl32.Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz},
		{-hx, hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	out := make([][2]mgl32.Vec3, 0, len(edges))
	for _, e := range edges {
		out = append(out, [2]mgl32.Vec3{c[e[0]], c[e[1]]})
	}
	return out
}

func gridSegments(hx, hz float32) [][2]mgl32.Vec3 {
	var out [][2]mgl32.Vec3
	for x := -hx; x <= hx+0.001; x += GridSpacing {
		out = append(out, [2]mgl32.Vec3{{x, 0, -hz}, {x, 0, hz}})
	}
	for z := -hz; z <= hz+0.001; z += GridSpacing {
		out = append(out, [2]mgl32.Vec3{{-hx, 0, z}, {hx, 0, z}})
	}
	return out
}
