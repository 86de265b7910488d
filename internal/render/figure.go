// Package render turns a ConsumptionMatrix into heatmap documents.
package render

import (
	"consumption-heatmap/internal/model"
)

// Figure is a plotly figure. It serializes to the same JSON that
// plotly.js accepts in Plotly.newPlot(el, fig.data, fig.layout).
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type string `json:"type"`
	// Z is indexed [time][date]; missing cells encode as null.
	Z           [][]model.Cell    `json:"z"`
	X           []model.Date      `json:"x"`
	Y           []model.TimeOfDay `json:"y"`
	Colorscale  string            `json:"colorscale"`
	HoverOnGaps bool              `json:"hoverongaps"`
	ColorBar    ColorBar          `json:"colorbar"`
}

type ColorBar struct {
	Title Text `json:"title"`
}

type Layout struct {
	Title Text `json:"title"`
	XAxis Axis `json:"xaxis"`
	YAxis Axis `json:"yaxis"`
}

type Axis struct {
	Title Text   `json:"title"`
	Type  string `json:"type,omitempty"`
}

type Text struct {
	Text string `json:"text"`
}

// NewFigure builds the single-trace heatmap for m.
func NewFigure(m *model.ConsumptionMatrix, title string) *Figure {
	return &Figure{
		Data: []Trace{{
			Type:       "heatmap",
			Z:          m.Cells,
			X:          m.Dates,
			Y:          m.Times,
			Colorscale: "Viridis",
			ColorBar:   ColorBar{Title: Text{Text: "kW"}},
		}},
		Layout: Layout{
			Title: Text{Text: title},
			XAxis: Axis{Title: Text{Text: "Date"}},
			YAxis: Axis{Title: Text{Text: "Time"}, Type: "category"},
		},
	}
}
