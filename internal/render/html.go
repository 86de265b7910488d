package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"consumption-heatmap/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var htmlTemplate = template.Must(template.ParseFS(templateFS, "templates/heatmap.html.tmpl"))

// svg geometry, in px
const (
	svgLeft     = 72
	svgTop      = 16
	svgBottom   = 64
	svgRight    = 16
	plotWidth   = 960
	plotHeight  = 576
	maxCellSide = 48
	axisLabels  = 12
)

type svgCell struct {
	X, Y, W, H float64
	Fill       string
	Label      string
}

type svgTick struct {
	X, Y float64
	Text string
}

type svgPlot struct {
	Width, Height float64
	Left, Top     float64
	PlotW, PlotH  float64
	Cells         []svgCell
	XTicks        []svgTick
	YTicks        []svgTick
	XTitle        string
	YTitle        string
}

type htmlView struct {
	Title     string
	Figure    *Figure
	Plot      svgPlot
	PlotlyURL string
	Legend    []string
}

// WriteHTML writes a standalone page. The SVG renders without network
// access; when plotlyURL is set the page upgrades to an interactive chart
// built from the embedded figure JSON.
func WriteHTML(w io.Writer, m *model.ConsumptionMatrix, title, plotlyURL string) error {
	fig := NewFigure(m, title)
	view := htmlView{
		Title:     title,
		Figure:    fig,
		Plot:      layoutSVG(m, NewScale(m)),
		PlotlyURL: plotlyURL,
		Legend:    legend(),
	}
	if err := htmlTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("execute html template: %w", err)
	}
	return nil
}

func layoutSVG(m *model.ConsumptionMatrix, s Scale) svgPlot {
	rows, cols := m.Rows(), m.Cols()
	cw := clampSide(plotWidth / float64(max(cols, 1)))
	ch := clampSide(plotHeight / float64(max(rows, 1)))

	p := svgPlot{
		Left:   svgLeft,
		Top:    svgTop,
		PlotW:  cw * float64(cols),
		PlotH:  ch * float64(rows),
		XTitle: "Date",
		YTitle: "Time",
	}
	p.Width = svgLeft + p.PlotW + svgRight
	p.Height = svgTop + p.PlotH + svgBottom

	p.Cells = make([]svgCell, 0, rows*cols)
	for i, row := range m.Cells {
		for j, c := range row {
			label := fmt.Sprintf("%s %s: ", m.Dates[j], m.Times[i])
			if c.Valid {
				label += fmt.Sprintf("%g kW", c.Value)
			} else {
				label += "no data"
			}
			p.Cells = append(p.Cells, svgCell{
				X:     svgLeft + float64(j)*cw,
				Y:     svgTop + float64(i)*ch,
				W:     cw,
				H:     ch,
				Fill:  s.Color(c),
				Label: label,
			})
		}
	}

	for _, j := range tickIndexes(cols) {
		p.XTicks = append(p.XTicks, svgTick{
			X:    svgLeft + (float64(j)+0.5)*cw,
			Y:    svgTop + p.PlotH + 14,
			Text: m.Dates[j].String(),
		})
	}
	for _, i := range tickIndexes(rows) {
		p.YTicks = append(p.YTicks, svgTick{
			X:    svgLeft - 6,
			Y:    svgTop + (float64(i)+0.5)*ch + 4,
			Text: m.Times[i].String(),
		})
	}
	return p
}

func clampSide(v float64) float64 {
	if v > maxCellSide {
		return maxCellSide
	}
	if v < 1 {
		return 1
	}
	return v
}

// tickIndexes picks at most axisLabels evenly spaced indexes out of n.
func tickIndexes(n int) []int {
	if n <= 0 {
		return nil
	}
	step := (n + axisLabels - 1) / axisLabels
	out := make([]int, 0, axisLabels)
	for i := 0; i < n; i += step {
		out = append(out, i)
	}
	return out
}

func legend() []string {
	out := make([]string, 0, 11)
	for i := 0; i <= 10; i++ {
		out = append(out, Viridis(float64(i)/10).Hex())
	}
	return out
}
