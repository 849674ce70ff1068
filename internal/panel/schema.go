package panel

import "github.com/studioadmin/internal/store"

// FieldKind selects the form control and the parsing applied to a value.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextArea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
	KindEmail    FieldKind = "email"
	KindNumber   FieldKind = "number"
	KindImage    FieldKind = "image"
)

// Field describes one editable column.
type Field struct {
	Name        string
	Label       string
	Kind        FieldKind
	Required    bool
	Options     []string
	Default     string
	Rules       string // validator tags applied to non-empty values
	Placeholder string
	InList      bool // shown as a column in the list table
}

// Capabilities lists the write operations a panel allows.
type Capabilities struct {
	Create bool
	Update bool
	Delete bool
}

// Schema is everything the generic panel needs to know about a collection.
type Schema struct {
	Collection string
	Path       string
	Title      string
	Singular   string
	Fields     []Field
	Order      store.Order
	Can        Capabilities
}

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ListFields returns the fields shown as table columns.
func (s Schema) ListFields() []Field {
	cols := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.InList {
			cols = append(cols, f)
		}
	}
	return cols
}

// NamesOfKind returns the names of the fields of the given kind.
func (s Schema) NamesOfKind(kind FieldKind) []string {
	var names []string
	for _, f := range s.Fields {
		if f.Kind == kind {
			names = append(names, f.Name)
		}
	}
	return names
}

// Values holds a draft's field values keyed by field name.
type Values map[string]string

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Form is a local draft of a record. ID is zero for a new record.
type Form struct {
	ID      uint
	Values  Values
	Errors  map[string]string
	Message string
}

// Editing reports whether the form updates an existing record.
func (f Form) Editing() bool {
	return f.ID != 0
}

// Get returns the draft value of a field.
func (f Form) Get(name string) string {
	return f.Values[name]
}

// Set writes a draft value.
func (f *Form) Set(name, value string) {
	if f.Values == nil {
		f.Values = Values{}
	}
	f.Values[name] = value
}

// ErrorFor returns the validation message for a field, if any.
func (f Form) ErrorFor(name string) string {
	return f.Errors[name]
}
