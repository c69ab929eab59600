package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"github.com/Lundis/noise-decrease/chart"
)

const (
	marginLeft   = 44
	marginTop    = 22
	marginBottom = 22
	marginRight  = 8
)

var (
	backgroundColor = color.NRGBA{R: 250, G: 250, B: 250, A: 255}
	axisColor       = color.NRGBA{R: 96, G: 96, B: 96, A: 255}
	textColor       = color.NRGBA{R: 32, G: 32, B: 32, A: 255}
)

// ChartView draws a chart.Model as plain canvas lines inside a fixed-size box.
type ChartView struct {
	model *chart.Model
	size  fyne.Size
	cont  *fyne.Container
	box   *fyne.Container
}

// NewChartView redraws on every model update, without animation.
func NewChartView(model *chart.Model, size fyne.Size) *ChartView {
	v := &ChartView{
		model: model,
		size:  size,
		cont:  container.NewWithoutLayout(),
	}
	v.box = container.NewGridWrap(size, v.cont)
	model.OnUpdate(func() {
		fyne.Do(v.Redraw)
	})
	v.Redraw()
	return v
}

func (v *ChartView) CanvasObject() fyne.CanvasObject {
	return v.box
}

// Objects returns what the last Redraw produced.
func (v *ChartView) Objects() []fyne.CanvasObject {
	return v.cont.Objects
}

// Redraw rebuilds the plot from the model. Call it on the fyne goroutine.
func (v *ChartView) Redraw() {
	spec := v.model.Spec()
	labels, values := v.model.Data()

	plotW := v.size.Width - marginLeft - marginRight
	plotH := v.size.Height - marginTop - marginBottom
	origin := fyne.NewPos(marginLeft, marginTop)

	background := canvas.NewRectangle(backgroundColor)
	background.Resize(v.size)
	objects := []fyne.CanvasObject{background}

	title := canvas.NewText(spec.Title, textColor)
	title.TextSize = 12
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Move(fyne.NewPos(marginLeft, 2))
	objects = append(objects, title)

	objects = append(objects,
		axisLine(origin, origin.AddXY(0, plotH)),
		axisLine(origin.AddXY(0, plotH), origin.AddXY(plotW, plotH)))

	lo, hi := spec.YRange(values)
	objects = append(objects,
		axisText(fmt.Sprintf("%.4g", hi), fyne.NewPos(2, marginTop-6)),
		axisText(fmt.Sprintf("%.4g", lo), fyne.NewPos(2, marginTop+plotH-6)),
		axisText(spec.YTitle, fyne.NewPos(2, marginTop+plotH/2-6)))

	points := chart.Polyline(spec, values, plotW, plotH)
	for i := 1; i < len(points); i++ {
		line := canvas.NewLine(spec.Color)
		line.StrokeWidth = spec.LineWidth
		line.Position1 = origin.AddXY(points[i-1].X, points[i-1].Y)
		line.Position2 = origin.AddXY(points[i].X, points[i].Y)
		objects = append(objects, line)
	}

	if len(labels) > 1 {
		for _, tick := range chart.Ticks(labels, spec.MaxXTicks) {
			x := float32(tick.Index) / float32(len(labels)-1) * plotW
			objects = append(objects, axisText(tick.Label, origin.AddXY(x-10, plotH+4)))
		}
	}

	v.cont.Objects = objects
	v.cont.Refresh()
}

func axisLine(from, to fyne.Position) *canvas.Line {
	line := canvas.NewLine(axisColor)
	line.StrokeWidth = 1
	line.Position1 = from
	line.Position2 = to
	return line
}

func axisText(text string, pos fyne.Position) *canvas.Text {
	t := canvas.NewText(text, axisColor)
	t.TextSize = 9
	t.Move(pos)
	return t
}
