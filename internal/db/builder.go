package db

// FieldOption adjusts a schema field added through IndexBuilder.
type FieldOption func(*SchemaField)

// Sortable keeps the field in the sort table (needed for SORTBY).
func Sortable() FieldOption {
	return func(f *SchemaField) { f.Sortable = true }
}

// CaseSensitive makes a TAG field match case-sensitively.
func CaseSensitive() FieldOption {
	return func(f *SchemaField) { f.CaseSensitive = true }
}

// Separator overrides the TAG separator (default ",").
func Separator(sep string) FieldOption {
	return func(f *SchemaField) { f.Separator = sep }
}

// IndexBuilder assembles a JSON index definition.
type IndexBuilder struct {
	def IndexDefinition
}

// NewJSONIndex starts an index over JSON documents stored under prefixes.
func NewJSONIndex(name string, prefixes ...string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name, Prefixes: prefixes}}
}

// Tag indexes path as a TAG field.
func (b *IndexBuilder) Tag(path, alias string, opts ...FieldOption) *IndexBuilder {
	return b.field(FieldTag, path, alias, opts)
}

// Numeric indexes path as a NUMERIC field.
func (b *IndexBuilder) Numeric(path, alias string, opts ...FieldOption) *IndexBuilder {
	return b.field(FieldNumeric, path, alias, opts)
}

// Text indexes path as a full-text field.
func (b *IndexBuilder) Text(path, alias string, opts ...FieldOption) *IndexBuilder {
	return b.field(FieldText, path, alias, opts)
}

func (b *IndexBuilder) field(t FieldType, path, alias string, opts []FieldOption) *IndexBuilder {
	f := SchemaField{Path: path, Alias: alias, Type: t}
	for _, opt := range opts {
		opt(&f)
	}
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	def.Fields = append([]SchemaField(nil), b.def.Fields...)
	return &def, nil
}

// MustBuild is Build for package-level schemas; it panics on an invalid one.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
