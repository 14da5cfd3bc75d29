package table

// Value is a single cell value. The zero value is the missing marker,
// analogous to SQL NULL: Valid is false and String carries no meaning.
type Value struct {
	String string
	Valid  bool
}

// NewValue wraps a string in a present Value.
func NewValue(s string) Value {
	return Value{String: s, Valid: true}
}

// Missing returns the missing marker.
func Missing() Value {
	return Value{}
}

// IsMissing reports whether the value is absent.
func (v Value) IsMissing() bool {
	return !v.Valid
}

// Row maps column names to cell values. Columns absent from the map are
// treated as missing.
type Row map[string]Value

// Table is an ordered sequence of rows sharing one column set. Column
// order is preserved from the source file.
type Table struct {
	Columns []string
	Rows    []Row
}

// Reader loads a table from a path-like identifier.
type Reader interface {
	Read(path string) (*Table, error)
}

// Writer persists a table to a path-like identifier, overwriting any
// existing file.
type Writer interface {
	Write(tbl *Table, path string) error
}
