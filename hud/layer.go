// Package hud draws screen-space UI on top of the 3D view. Health bars follow
// their FollowAnchor offsets and report their measured size back to the world.
package hud

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/prefabs"
)

const fillHeight = 4

type bar struct {
	panel    *widget.Container
	label    *widget.Text
	fraction float32
	visible  bool
}

// Layer is the HUD. It runs in the UI layout phase, after anchors were
// projected, and is the only writer of FollowAnchor Width and Height.
type Layer struct {
	UI    *ebitenui.UI
	root  *widget.Container
	face  ebtext.Face
	style *prefabs.HealthBarSpec
	bars  map[ecs.Entity]*bar
	score *widget.Text
}

func NewLayer(style *prefabs.HealthBarSpec) *Layer {
	if style == nil {
		style = &prefabs.HealthBarSpec{Width: 120, Height: 24, Padding: 4}
	}
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(NewAbsoluteLayout()),
	)
	score := widget.NewText(
		widget.TextOpts.Text("", &face, colornames.Gold),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(AbsoluteLayoutData{Left: 12, Top: 12})),
	)
	root.AddChild(score)

	return &Layer{
		UI:    &ebitenui.UI{Container: root},
		root:  root,
		face:  face,
		style: style,
		bars:  make(map[ecs.Entity]*bar),
		score: score,
	}
}

func (l *Layer) Writes() []string {
	return []string{component.ResourceAnchorSize}
}

// SetStyle applies to bars created after the call.
func (l *Layer) SetStyle(style *prefabs.HealthBarSpec) {
	if style != nil {
		l.style = style
	}
}

// Bars returns how many health bar widgets are live.
func (l *Layer) Bars() int { return len(l.bars) }

func (l *Layer) Update(w *ecs.World) {
	if l == nil || w == nil {
		return
	}

	live := make(map[ecs.Entity]bool)
	ecs.ForEach2(w, component.FollowAnchorComponent.Kind(), component.HealthBarComponent.Kind(), func(e ecs.Entity, anchor *component.FollowAnchor, hb *component.HealthBar) {
		live[e] = true
		b := l.bars[e]
		if b == nil {
			b = l.newBar(hb.Name)
			l.bars[e] = b
			l.root.AddChild(b.panel)
		}

		b.label.Label = l.labelText(w, e, hb.Name)
		b.fraction = healthFraction(w, ecs.FromRef(anchor.Target))
		b.visible = anchor.Placed
		if b.visible {
			b.panel.GetWidget().Visibility = widget.Visibility_Show
		} else {
			b.panel.GetWidget().Visibility = widget.Visibility_Hide
		}
		b.panel.GetWidget().LayoutData = AbsoluteLayoutData{Left: int(anchor.Left), Top: int(anchor.Top)}

		pw, ph := b.panel.PreferredSize()
		anchor.Width = float32(pw)
		anchor.Height = float32(ph)
	})

	for e, b := range l.bars {
		if !live[e] {
			l.root.RemoveChild(b.panel)
			delete(l.bars, e)
		}
	}

	if _, score, err := ecs.Single(w, component.ScoreComponent.Kind()); err == nil {
		l.score.Label = fmt.Sprintf("Kills: %d  Best: %d", score.Kills, score.Best)
	}

	l.root.RequestRelayout()
	l.UI.Update()
}

func (l *Layer) Draw(screen *ebiten.Image) {
	if l == nil || screen == nil {
		return
	}
	l.UI.Draw(screen)

	pad := float32(l.style.Padding)
	fill := l.style.Fill.Or(colornames.Lightgreen)
	for _, b := range l.bars {
		if !b.visible {
			continue
		}
		r := b.panel.GetWidget().Rect
		x := float32(r.Min.X) + pad
		y := float32(r.Max.Y) - pad - fillHeight
		full := float32(r.Dx()) - 2*pad
		if full <= 0 {
			continue
		}
		vector.DrawFilledRect(screen, x, y, full, fillHeight, colornames.Darkred, false)
		vector.DrawFilledRect(screen, x, y, full*b.fraction, fillHeight, fill, false)
	}
}

func (l *Layer) newBar(name string) *bar {
	pad := l.style.Padding
	bg := imageui.NewNineSliceColor(l.style.Background.Or(color.NRGBA{A: 0xb0}))
	label := widget.NewText(
		widget.TextOpts.Text(name, &l.face, l.style.Text.Or(color.White)),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(bg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: pad, Bottom: pad*2 + fillHeight, Left: pad, Right: pad}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(l.style.Width, l.style.Height),
		),
	)
	panel.AddChild(label)
	return &bar{panel: panel, label: label, fraction: 1}
}

// labelText prefers the text of the bar's label child over the bar name.
func (l *Layer) labelText(w *ecs.World, e ecs.Entity, name string) string {
	for _, child := range ecs.Children(w, e) {
		if lbl, ok := ecs.Get(w, child, component.HealthBarLabelComponent.Kind()); ok && lbl.Text != "" {
			return lbl.Text
		}
	}
	return name
}

func healthFraction(w *ecs.World, target ecs.Entity) float32 {
	h, ok := ecs.Get(w, target, component.HealthComponent.Kind())
	if !ok || h.Initial <= 0 {
		return 0
	}
	f := float32(h.Current) / float32(h.Initial)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
