package table

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the table. The copy owns its rows, so
// applying translations to it never mutates the original.
func (t *Table) Clone() *Table {
	cloned := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		copied := make(Row, len(row))
		for k, v := range row {
			copied[k] = v
		}
		cloned.Rows = append(cloned.Rows, copied)
	}
	return cloned
}

// DistinctValues returns the distinct non-missing values of a column in
// first-occurrence order.
func (t *Table) DistinctValues(column string) []Value {
	seen := make(map[string]struct{})
	ret := make([]Value, 0)
	for _, row := range t.Rows {
		v, ok := row[column]
		if !ok || v.IsMissing() {
			continue
		}
		if _, dup := seen[v.String]; dup {
			continue
		}
		seen[v.String] = struct{}{}
		ret = append(ret, v)
	}
	return ret
}

// ApplyColumnMap replaces every value of the column with its mapping,
// leaving values absent from the map (missing source values, failed
// translations) untouched.
func (t *Table) ApplyColumnMap(column string, m map[string]string) {
	for _, row := range t.Rows {
		v, ok := row[column]
		if !ok || v.IsMissing() {
			continue
		}
		if translated, ok := m[v.String]; ok {
			row[column] = NewValue(translated)
		}
	}
}
