package models

// Filter is a metadata filter expression: a small tagged-variant tree of
// equality, set-membership, and conjunction nodes. Index implementations
// switch exhaustively over the variants instead of interpreting an untyped
// map. A nil Filter matches everything.
type Filter interface {
	// Matches reports whether the chunk metadata satisfies the filter.
	Matches(m ChunkMetadata) bool
}

// Eq matches when the named field equals Value.
type Eq struct {
	Field string
	Value string
}

func (f Eq) Matches(m ChunkMetadata) bool {
	return m.Field(f.Field) == f.Value
}

// In matches when the named field equals any of Values.
type In struct {
	Field  string
	Values []string
}

func (f In) Matches(m ChunkMetadata) bool {
	got := m.Field(f.Field)
	for _, v := range f.Values {
		if got == v {
			return true
		}
	}
	return false
}

// And matches when every sub-filter matches. An empty And matches
// everything, same as a nil Filter.
type And []Filter

func (f And) Matches(m ChunkMetadata) bool {
	for _, sub := range f {
		if sub == nil {
			continue
		}
		if !sub.Matches(m) {
			return false
		}
	}
	return true
}

// MatchesFilter applies a possibly-nil filter.
func MatchesFilter(f Filter, m ChunkMetadata) bool {
	if f == nil {
		return true
	}
	return f.Matches(m)
}
