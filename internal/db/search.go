package db

// SortKey orders results by one sortable alias.
type SortKey struct {
	Field string
	Desc  bool
}

// SearchQuery is a paged query over a JSON index. Hits carry the whole
// document ($).
type SearchQuery struct {
	Index  string
	Query  string
	Offset int
	Limit  int
	// Sort keys apply in order; later keys break ties of earlier ones.
	Sort []SortKey
}

// SearchResult holds one page of hits and the total match count.
type SearchResult struct {
	Total int64
	Docs  []Doc
}

// Doc is a matching key and its JSON document. Key is empty when the driver
// cannot report it.
type Doc struct {
	Key  string
	JSON []byte
}
