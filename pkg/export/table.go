package export

// Table - rows in emission order with the union of their keys as columns
type Table struct {
	columns []string
	seen    map[string]struct{}
	rows    []*Row
}

// NewTable -
func NewTable() *Table {
	return &Table{
		seen: map[string]struct{}{},
	}
}

// Append - adds the row, new keys become columns after the known ones
func (t *Table) Append(row *Row) {
	for _, key := range row.keys {
		if _, ok := t.seen[key]; ok {
			continue
		}
		t.seen[key] = struct{}{}
		t.columns = append(t.columns, key)
	}
	t.rows = append(t.rows, row)
}

// Columns -
func (t *Table) Columns() []string {
	columns := make([]string, len(t.columns))
	copy(columns, t.columns)
	return columns
}

// Rows -
func (t *Table) Rows() []*Row {
	return t.rows
}

// Len - number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Values - the cells of row i in column order, nil for keys the row does not have
func (t *Table) Values(i int) []interface{} {
	row := t.rows[i]
	values := make([]interface{}, len(t.columns))
	for c, key := range t.columns {
		if v, ok := row.values[key]; ok {
			values[c] = v
		}
	}
	return values
}
