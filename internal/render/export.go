package render

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"consumption-heatmap/internal/model"
	"consumption-heatmap/internal/pivot"
)

// Format is a downloadable document type.
type Format string

const (
	FormatHTML Format = "html"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
)

// DefaultFileName is offered when the user leaves the name blank.
const DefaultFileName = "heatmap.html"

var mimeTypes = map[Format]string{
	FormatHTML: "text/html; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
	FormatCSV:  "text/csv; charset=utf-8",
}

// Formats lists the supported formats in UI order.
func Formats() []Format { return []Format{FormatHTML, FormatXLSX, FormatPDF, FormatCSV} }

// ParseFormat accepts a format name or a file extension; empty means html.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if f == "" {
		return FormatHTML, nil
	}
	if _, ok := mimeTypes[f]; !ok {
		return "", fmt.Errorf("unsupported format %q", s)
	}
	return f, nil
}

// MIMEType is the Content-Type for f.
func (f Format) MIMEType() string { return mimeTypes[f] }

// Ext is the file extension for f including the dot.
func (f Format) Ext() string { return "." + string(f) }

// FileName turns a user-supplied download name into a safe base name ending
// in the format's extension.
func FileName(name string, f Format) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		name = ""
	}
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`<>:"|?*`, r) {
			return -1
		}
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Trim(base, ". ")
	if base == "" {
		base = strings.TrimSuffix(DefaultFileName, filepath.Ext(DefaultFileName))
	}
	return base + f.Ext()
}

// Document is a heatmap waiting to be written in one format.
type Document struct {
	Format Format
	Title  string
	Matrix *model.ConsumptionMatrix
	// PlotlyURL enables the interactive chart in html output.
	PlotlyURL string
}

// Render writes the document to w.
func (d Document) Render(w io.Writer) error {
	if d.Matrix == nil {
		return fmt.Errorf("no matrix to render")
	}
	switch d.Format {
	case FormatHTML, "":
		return WriteHTML(w, d.Matrix, d.Title, d.PlotlyURL)
	case FormatXLSX:
		return WriteXLSX(w, d.Matrix, d.Title)
	case FormatPDF:
		return WritePDF(w, d.Matrix, d.Title)
	case FormatCSV:
		return WriteCSV(w, d.Matrix)
	default:
		return fmt.Errorf("unsupported format %q", d.Format)
	}
}

// Exported is a rendered document ready for download.
type Exported struct {
	Data     []byte
	MIMEType string
	FileName string
}

// Export renders d through a temporary file in dir (os.TempDir when empty)
// and returns its contents. The temporary file is removed on every path.
func Export(d Document, dir, fileName string) (*Exported, error) {
	if d.Format == "" {
		d.Format = FormatHTML
	}
	if _, ok := mimeTypes[d.Format]; !ok {
		return nil, pivot.Fail(pivot.KindRender, "export", fmt.Errorf("unsupported format %q", d.Format))
	}

	tmp, err := os.CreateTemp(dir, "heatmap-*"+d.Format.Ext())
	if err != nil {
		return nil, pivot.Fail(pivot.KindRender, "create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if err := d.Render(tmp); err != nil {
		tmp.Close()
		return nil, pivot.Fail(pivot.KindRender, "render "+string(d.Format), err)
	}
	if err := tmp.Close(); err != nil {
		return nil, pivot.Fail(pivot.KindRender, "close temp file", err)
	}

	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		return nil, pivot.Fail(pivot.KindRender, "read temp file", err)
	}
	return &Exported{
		Data:     data,
		MIMEType: d.Format.MIMEType(),
		FileName: FileName(fileName, d.Format),
	}, nil
}
