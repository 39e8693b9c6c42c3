package table

// Field describes one column: its name and element type.
type Field struct {
	Name string `json:"name"`
	Type DataType
}

// Schema is the ordered list of fields of a Table. Names are not required to
// be unique; every lookup resolves to the first match, so callers should
// treat names as unique by convention.
type Schema struct {
	fields []Field
}

// NewSchema creates a schema from the given fields. The slice is copied.
func NewSchema(fields []Field) *Schema {
	fs := make([]Field, len(fields))
	copy(fs, fields)
	return &Schema{fields: fs}
}

// NumFields returns the number of fields.
func (s *Schema) NumFields() int {
	return len(s.fields)
}

// Field returns the field at position i.
func (s *Schema) Field(i int) Field {
	return s.fields[i]
}

// Fields returns a copy of the field list.
func (s *Schema) Fields() []Field {
	fs := make([]Field, len(s.fields))
	copy(fs, s.fields)
	return fs
}

// FieldIndex resolves a column name to its position, first match wins.
// The second result is false if no field carries the name.
func (s *Schema) FieldIndex(name string) (int, bool) {
	for i, f := range s.fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}
