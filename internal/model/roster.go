package model

// Cell is one labelled value of a roster row. An empty Value means the cell is missing.
type Cell struct {
	Column string
	Value  string
}

// Row is an ordered set of cells for one employee.
type Row struct {
	ID    string
	Cells []Cell
}

// Values returns the cell values in column order.
func (r Row) Values() []string {
	values := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		values[i] = c.Value
	}
	return values
}

// EncodedRow is the result of classifying every non-empty cell in a row.
type EncodedRow struct {
	Histogram map[ShiftLabel]int
	Pattern   string
	Labels    []ShiftLabel
}
