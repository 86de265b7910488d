package render

import (
	"fmt"

	"consumption-heatmap/internal/analysis"
	"consumption-heatmap/internal/model"
)

// MissingColor marks cells without a reading. It is outside the gradient so a
// gap never reads as the lowest consumption.
const MissingColor = "#d9d9d9"

// RGB is an 8-bit color.
type RGB struct{ R, G, B uint8 }

func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

type stop struct {
	at float64
	c  RGB
}

// viridis matches plotly's "Viridis" colorscale.
var viridis = []stop{
	{0.0000, RGB{0x44, 0x01, 0x54}},
	{0.1111, RGB{0x48, 0x28, 0x78}},
	{0.2222, RGB{0x3e, 0x49, 0x89}},
	{0.3333, RGB{0x31, 0x68, 0x8e}},
	{0.4444, RGB{0x26, 0x82, 0x8e}},
	{0.5556, RGB{0x1f, 0x9e, 0x89}},
	{0.6667, RGB{0x35, 0xb7, 0x79}},
	{0.7778, RGB{0x6e, 0xce, 0x58}},
	{0.8889, RGB{0xb5, 0xde, 0x2b}},
	{1.0000, RGB{0xfd, 0xe7, 0x25}},
}

// Viridis maps t in [0,1] onto the gradient. Values outside are clamped.
func Viridis(t float64) RGB {
	if t <= 0 {
		return viridis[0].c
	}
	if t >= 1 {
		return viridis[len(viridis)-1].c
	}
	for i := 1; i < len(viridis); i++ {
		hi := viridis[i]
		if t > hi.at {
			continue
		}
		lo := viridis[i-1]
		f := (t - lo.at) / (hi.at - lo.at)
		return RGB{
			R: lerp(lo.c.R, hi.c.R, f),
			G: lerp(lo.c.G, hi.c.G, f),
			B: lerp(lo.c.B, hi.c.B, f),
		}
	}
	return viridis[len(viridis)-1].c
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
}

// Scale normalizes matrix values onto the gradient.
type Scale struct {
	Min, Max float64
	ok       bool
}

// NewScale spans the populated range of m.
func NewScale(m *model.ConsumptionMatrix) Scale {
	lo, hi, ok := analysis.Range(m)
	return Scale{Min: lo, Max: hi, ok: ok}
}

// Position returns where v falls on the gradient. A flat matrix sits in the
// middle.
func (s Scale) Position(v float64) float64 {
	if !s.ok || s.Max == s.Min {
		return 0.5
	}
	return (v - s.Min) / (s.Max - s.Min)
}

// Color returns the fill for a cell, MissingColor for gaps.
func (s Scale) Color(c model.Cell) string {
	if !c.Valid {
		return MissingColor
	}
	return Viridis(s.Position(c.Value)).Hex()
}

// RGB is Color for renderers that take channel values.
func (s Scale) RGB(c model.Cell) RGB {
	if !c.Valid {
		return RGB{0xd9, 0xd9, 0xd9}
	}
	return Viridis(s.Position(c.Value))
}
