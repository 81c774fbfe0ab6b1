package report

import "strings"

type Type string

const (
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
)

// title suffixes dropped from route segments
const (
	weeklySuffix  = "주차"
	monthlySuffix = "개월"
)

func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case Weekly, Monthly:
		return Type(s), true
	}
	return "", false
}

func (t Type) suffix() string {
	switch t {
	case Weekly:
		return weeklySuffix
	case Monthly:
		return monthlySuffix
	}
	return ""
}

// Key is `type-title`, exactly.
func Key(typ Type, title string) string {
	return string(typ) + "-" + title
}

// RouteSegment maps a title to its route segment, eg. ("weekly", "2주차") -> "2".
func RouteSegment(typ Type, title string) string {
	return strings.TrimSuffix(title, typ.suffix())
}

// TitleFromSegment is the inverse of RouteSegment, eg. ("monthly", "3") -> "3개월".
func TitleFromSegment(typ Type, segment string) string {
	suffix := typ.suffix()
	if suffix == "" || strings.HasSuffix(segment, suffix) {
		return segment
	}
	return segment + suffix
}

type IndexEntry struct {
	ID    string `json:"id"`
	Type  Type   `json:"type"`
	Title string `json:"title"`
	Route string `json:"route"`
}

// Index answers report existence in constant time. Lookups are exact string matches.
type Index struct {
	entries map[string]IndexEntry
	keys    []string
}

func NewIndex(reports []LearningReport) Index {
	idx := Index{entries: make(map[string]IndexEntry, len(reports))}
	for _, r := range reports {
		key := r.Key()
		if _, ok := idx.entries[key]; !ok {
			idx.keys = append(idx.keys, key)
		}
		idx.entries[key] = IndexEntry{ID: r.ID, Type: r.Type, Title: r.Title, Route: RouteSegment(r.Type, r.Title)}
	}
	return idx
}

func (idx Index) Has(typ Type, title string) bool {
	_, ok := idx.entries[Key(typ, title)]
	return ok
}

// ID returns the id of report (type, title) if it exists.
func (idx Index) ID(typ Type, title string) (string, bool) {
	e, ok := idx.entries[Key(typ, title)]
	return e.ID, ok
}

// Keys are the indexed keys in insertion order.
func (idx Index) Keys() []string {
	return append([]string(nil), idx.keys...)
}

// Entries are the indexed reports in insertion order.
func (idx Index) Entries() []IndexEntry {
	res := make([]IndexEntry, 0, len(idx.keys))
	for _, k := range idx.keys {
		res = append(res, idx.entries[k])
	}
	return res
}

func (idx Index) Len() int {
	return len(idx.keys)
}
