package tag

// Set is an immutable bidirectional name<->id mapping of one app's tags.
type Set struct {
	byID   map[string]string
	byName map[string]string
}

// NewSet builds a set from an id -> name map. If two ids share a name, the
// lexically smallest id wins the name -> id direction.
func NewSet(idToName map[string]string) Set {
	s := Set{
		byID:   make(map[string]string, len(idToName)),
		byName: make(map[string]string, len(idToName)),
	}
	for id, name := range idToName {
		s.byID[id] = name
		if cur, ok := s.byName[name]; !ok || id < cur {
			s.byName[name] = id
		}
	}
	return s
}

// IDByName returns the id of a tag name.
func (s Set) IDByName(name string) (string, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// NameByID returns the name of a tag id.
func (s Set) NameByID(id string) (string, bool) {
	name, ok := s.byID[id]
	return name, ok
}

// Len returns the number of tags.
func (s Set) Len() int { return len(s.byID) }

// Names maps ids to names, keeping unknown ids as-is.
func (s Set) Names(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := s.byID[id]; ok {
			out[i] = name
		} else {
			out[i] = id
		}
	}
	return out
}
