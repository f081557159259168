package query

import "github.com/google/uuid"

// RequestKind discriminates the two retrieval paths.
type RequestKind int

// Request kinds.
const (
	KindText RequestKind = iota
	KindIDs
)

// Request is either an ordered id list or a textual query.
type Request struct {
	kind RequestKind
	ids  []uuid.UUID
	text string
}

// ByIDs requests the given assets in the given order. A nil or empty list is
// still an id request and yields an empty page.
func ByIDs(ids ...uuid.UUID) Request {
	c := make([]uuid.UUID, len(ids))
	copy(c, ids)
	return Request{kind: KindIDs, ids: c}
}

// ByText requests assets matching a textual query. The empty string matches
// everything in default order.
func ByText(text string) Request {
	return Request{kind: KindText, text: text}
}

// Kind returns which path the request takes.
func (r Request) Kind() RequestKind { return r.kind }

// IDs returns the requested ids in caller order.
func (r Request) IDs() []uuid.UUID { return r.ids }

// Text returns the textual query.
func (r Request) Text() string { return r.text }
