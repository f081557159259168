package field

// Kind is the value kind of a queryable asset field.
type Kind int

// Field kinds.
const (
	String Kind = iota
	Int
	Bool
	Timestamp
	// TagList holds tag ids; filters compare against single elements.
	TagList
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Timestamp:
		return "timestamp"
	case TagList:
		return "tags"
	default:
		return "unknown"
	}
}

// Queryable asset field names, as they appear in textual queries.
const (
	ID           = "id"
	FileName     = "fileName"
	FileHash     = "fileHash"
	FileSize     = "fileSize"
	FileVersion  = "fileVersion"
	MimeType     = "mimeType"
	Slug         = "slug"
	Tags         = "tags"
	IsImage      = "isImage"
	PixelWidth   = "pixelWidth"
	PixelHeight  = "pixelHeight"
	CreatedBy    = "createdBy"
	Created      = "created"
	LastModified = "lastModified"
	Version      = "version"
)

// Field describes a queryable asset field.
type Field struct {
	Name     string
	Kind     Kind
	Sortable bool
}

var all = []Field{
	{Name: ID, Kind: String},
	{Name: FileName, Kind: String, Sortable: true},
	{Name: FileHash, Kind: String},
	{Name: FileSize, Kind: Int, Sortable: true},
	{Name: FileVersion, Kind: Int, Sortable: true},
	{Name: MimeType, Kind: String, Sortable: true},
	{Name: Slug, Kind: String, Sortable: true},
	{Name: Tags, Kind: TagList},
	{Name: IsImage, Kind: Bool},
	{Name: PixelWidth, Kind: Int, Sortable: true},
	{Name: PixelHeight, Kind: Int, Sortable: true},
	{Name: CreatedBy, Kind: String},
	{Name: Created, Kind: Timestamp, Sortable: true},
	{Name: LastModified, Kind: Timestamp, Sortable: true},
	{Name: Version, Kind: Int, Sortable: true},
}

var byName = func() map[string]Field {
	m := make(map[string]Field, len(all))
	for _, f := range all {
		m[f.Name] = f
	}
	return m
}()

// All returns every queryable field in declaration order.
func All() []Field {
	out := make([]Field, len(all))
	copy(out, all)
	return out
}

// Lookup returns the field with the given name.
func Lookup(name string) (Field, bool) {
	f, ok := byName[name]
	return f, ok
}
