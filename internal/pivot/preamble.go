package pivot

import (
	"fmt"
	"strings"

	"consumption-heatmap/internal/model"
)

// DefaultPreambleRows is the number of title/metadata rows the meter export
// writes below the sheet header and above the real column names.
const DefaultPreambleRows = 3

// Normalized is a table after preamble-strip: the promoted header and the
// data rows below it.
type Normalized struct {
	Header []string
	Rows   [][]string

	// FirstRow is the 1-based sheet row of Rows[0].
	FirstRow int
}

// StripPreamble drops the first preambleRows table rows unconditionally and
// promotes the next row to column names.
//
// The layout is assumed, not detected: a sheet without the preamble still
// loses its first rows and yields a wrong header.
func StripPreamble(t *model.Table, preambleRows int) (*Normalized, error) {
	if t == nil {
		return nil, Fail(KindInternal, "strip preamble", fmt.Errorf("table is nil"))
	}
	if preambleRows < 0 {
		return nil, Fail(KindInternal, "strip preamble", fmt.Errorf("negative preamble rows %d", preambleRows))
	}
	if len(t.Rows) <= preambleRows {
		return nil, Fail(KindPreamble, "strip preamble", fmt.Errorf(
			"sheet %q has %d rows, expected %d preamble rows followed by a header row",
			t.Sheet, len(t.Rows), preambleRows))
	}

	header := make([]string, len(t.Rows[preambleRows]))
	copy(header, t.Rows[preambleRows])

	data := t.Rows[preambleRows+1:]
	return &Normalized{
		Header: header,
		Rows:   data,
		// +1 for the sheet header row, +1 for the promoted row, +1 for 1-based numbering.
		FirstRow: preambleRows + 3,
	}, nil
}

// Columns returns the non-empty promoted column names of a table, in sheet
// order.
func Columns(t *model.Table, preambleRows int) ([]string, error) {
	n, err := StripPreamble(t, preambleRows)
	if err != nil {
		return nil, err
	}
	return nonEmpty(n.Header), nil
}

// Index returns the position of the named column, matching exactly first and
// then ignoring surrounding whitespace.
func (n *Normalized) Index(name string) (int, error) {
	for i, h := range n.Header {
		if h == name {
			return i, nil
		}
	}
	want := strings.TrimSpace(name)
	if want != "" {
		for i, h := range n.Header {
			if strings.TrimSpace(h) == want {
				return i, nil
			}
		}
	}
	return -1, &Failure{
		Kind:  KindColumnLookup,
		Op:    "find column",
		Value: name,
		Err:   fmt.Errorf("available columns: %s", strings.Join(nonEmpty(n.Header), ", ")),
	}
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
