package render

import (
	"fmt"
	"io"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"consumption-heatmap/internal/model"
)

// page geometry, in mm on landscape A4
const (
	pdfMarginLeft   = 28.0
	pdfMarginTop    = 22.0
	pdfMarginRight  = 12.0
	pdfMarginBottom = 24.0
)

// WritePDF draws the heatmap as a filled grid on one landscape page.
func WritePDF(w io.Writer, m *model.ConsumptionMatrix, title string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("consumption-heatmap", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(foldDiacritics(s)) }

	pageW, pageH := pdf.GetPageSize()
	pdf.SetFont("Arial", "B", 14)
	pdf.SetXY(pdfMarginLeft, 8)
	pdf.CellFormat(0, 8, text(title), "", 0, "L", false, 0, "")

	rows, cols := m.Rows(), m.Cols()
	gridW := pageW - pdfMarginLeft - pdfMarginRight
	gridH := pageH - pdfMarginTop - pdfMarginBottom
	cw := gridW / float64(max(cols, 1))
	ch := gridH / float64(max(rows, 1))
	scale := NewScale(m)

	for i, row := range m.Cells {
		for j, c := range row {
			rgb := scale.RGB(c)
			pdf.SetFillColor(int(rgb.R), int(rgb.G), int(rgb.B))
			pdf.Rect(pdfMarginLeft+float64(j)*cw, pdfMarginTop+float64(i)*ch, cw, ch, "F")
		}
	}
	pdf.SetDrawColor(120, 120, 120)
	pdf.Rect(pdfMarginLeft, pdfMarginTop, cw*float64(cols), ch*float64(rows), "D")

	pdf.SetFont("Arial", "", 6)
	pdf.SetTextColor(60, 60, 60)
	for _, i := range tickIndexes(rows) {
		label := m.Times[i].String()
		y := pdfMarginTop + (float64(i)+0.5)*ch + 1
		pdf.Text(pdfMarginLeft-pdf.GetStringWidth(label)-1.5, y, label)
	}
	for _, j := range tickIndexes(cols) {
		x := pdfMarginLeft + (float64(j)+0.5)*cw
		y := pdfMarginTop + ch*float64(rows) + 2
		pdf.TransformBegin()
		pdf.TransformRotate(-45, x, y)
		pdf.Text(x, y+2, m.Dates[j].String())
		pdf.TransformEnd()
	}

	pdf.SetFont("Arial", "", 9)
	pdf.Text(pdfMarginLeft+gridW/2, pageH-4, "Date")
	pdf.Text(4, pdfMarginTop-3, "Time")

	pdf.SetFont("Arial", "", 7)
	pdf.Text(pageW-70, pageH-4, text(fmt.Sprintf("%.3g kW", scale.Min)))
	for k := 0; k < 20; k++ {
		c := Viridis(float64(k) / 19)
		pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		pdf.Rect(pageW-58+float64(k)*1.8, pageH-7, 1.8, 3, "F")
	}
	pdf.Text(pageW-20, pageH-4, text(fmt.Sprintf("%.3g kW", scale.Max)))

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("draw pdf: %w", err)
	}
	return pdf.Output(w)
}

// foldDiacritics strips combining marks so Czech text survives the core PDF
// fonts, e.g. "spotřeba" becomes "spotreba".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
