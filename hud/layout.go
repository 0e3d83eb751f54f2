package hud

import (
	"image"

	"github.com/ebitenui/ebitenui/widget"
)

// AbsoluteLayoutData places a widget at a fixed screen position.
type AbsoluteLayoutData struct {
	Left int
	Top  int
}

// AbsoluteLayout puts every child at its AbsoluteLayoutData offset, relative to
// the container, at the child's preferred size. Children without layout data
// sit at the container origin.
type AbsoluteLayout struct{}

func NewAbsoluteLayout() *AbsoluteLayout {
	return &AbsoluteLayout{}
}

func (l *AbsoluteLayout) PreferredSize(widgets []widget.PreferredSizeLocateableWidget) (int, int) {
	width, height := 0, 0
	for _, w := range widgets {
		r := placed(w, image.Point{})
		if r.Max.X > width {
			width = r.Max.X
		}
		if r.Max.Y > height {
			height = r.Max.Y
		}
	}
	return width, height
}

func (l *AbsoluteLayout) Layout(widgets []widget.PreferredSizeLocateableWidget, rect image.Rectangle) {
	for _, w := range widgets {
		w.SetLocation(placed(w, rect.Min))
	}
}

func placed(w widget.PreferredSizeLocateableWidget, origin image.Point) image.Rectangle {
	pw, ph := w.PreferredSize()
	at := origin
	if data, ok := w.GetWidget().LayoutData.(AbsoluteLayoutData); ok {
		at = at.Add(image.Pt(data.Left, data.Top))
	}
	return image.Rect(at.X, at.Y, at.X+pw, at.Y+ph)
}
