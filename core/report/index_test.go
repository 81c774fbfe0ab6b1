package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex_Has(t *testing.T) {
	idx := NewIndex([]LearningReport{
		{ID: "r1", Type: Weekly, Title: "1주차"},
		{ID: "r2", Type: Monthly, Title: "3개월"},
	})

	tests := []struct {
		typ   Type
		title string
		want  bool
	}{
		{Weekly, "1주차", true},
		{Weekly, "2주차", false},
		{Monthly, "3개월", true},
		{Weekly, "3개월", false},
		{Weekly, "1", false},    // exact match only
		{Weekly, " 1주차", false}, // no fuzzy matching
	}
	for _, tt := range tests {
		t.Run(Key(tt.typ, tt.title), func(t *testing.T) {
			assert.Equal(t, tt.want, idx.Has(tt.typ, tt.title))
		})
	}

	id, ok := idx.ID(Monthly, "3개월")
	assert.True(t, ok)
	assert.Equal(t, "r2", id)
	assert.Equal(t, []string{"weekly-1주차", "monthly-3개월"}, idx.Keys())
	assert.Equal(t, 2, idx.Len())
}

func TestRouteSegment(t *testing.T) {
	tests := []struct {
		typ     Type
		title   string
		segment string
	}{
		{Weekly, "1주차", "1"},
		{Weekly, "12주차", "12"},
		{Monthly, "3개월", "3"},
		{Monthly, "3주차", "3주차"}, // only the type's own suffix is dropped
		{Weekly, "special", "special"},
	}
	for _, tt := range tests {
		t.Run(Key(tt.typ, tt.title), func(t *testing.T) {
			got := RouteSegment(tt.typ, tt.title)
			assert.Equal(t, tt.segment, got)
			if got != tt.title {
				assert.Equal(t, tt.title, TitleFromSegment(tt.typ, got))
			}
		})
	}
}

func TestNewIndex_entries(t *testing.T) {
	idx := NewIndex([]LearningReport{{ID: "r1", Type: Weekly, Title: "1주차"}})
	assert.Equal(t, []IndexEntry{{ID: "r1", Type: Weekly, Title: "1주차", Route: "1"}}, idx.Entries())

	empty := NewIndex(nil)
	assert.False(t, empty.Has(Weekly, "1주차"))
	assert.Empty(t, empty.Entries())
}
