package model

// Table is one worksheet as a spreadsheet reader sees it: the first sheet row
// as Header, every following row as text cells.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]string
}

// Cell returns the raw text at row r, column c, or "" when the
// row is shorter than c.
func (t *Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}
