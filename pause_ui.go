package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/thirdperson/common"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/ecs/system"
)

type menuButton struct {
	label   string
	onClick func()
}

// NewMenuUI builds the title screen with Play and Quit buttons.
func NewMenuUI(g *Game) *ebitenui.UI {
	ui, _ := newPanelUI("Arena", []menuButton{
		{label: "Play", onClick: func() { system.RequestState(g.world, component.StatusPlaying) }},
		{label: "Quit", onClick: func() { g.quit = true }},
	})
	return ui
}

// NewGameOverUI builds the screen shown after the player dies. The returned
// text is the score line, refreshed by the game while the screen is up.
func NewGameOverUI(g *Game) (*ebitenui.UI, *widget.Text) {
	return newPanelUI("Game Over", []menuButton{
		{label: "Retry", onClick: func() { system.RequestState(g.world, component.StatusPlaying) }},
		{label: "Menu", onClick: func() { system.RequestState(g.world, component.StatusMenu) }},
	})
}

// newPanelUI builds a centered panel with a title, a subtitle line and a
// column of buttons, using colored nine-slices and the built-in basic font.
func newPanelUI(title string, buttons []menuButton) (*ebitenui.UI, *widget.Text) {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	titleText := widget.NewText(
		widget.TextOpts.Text(title, &face, white),
		widget.TextOpts.WidgetOpts(center),
	)
	subtitle := widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}),
		widget.TextOpts.WidgetOpts(center),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/3, common.BaseHeight/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(titleText)
	panel.AddChild(subtitle)

	for _, b := range buttons {
		onClick := b.onClick
		panel.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnImg}),
			widget.ButtonOpts.Text(b.label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(center, widget.WidgetOpts.MinSize(160, 28)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		))
	}

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}, subtitle
}
