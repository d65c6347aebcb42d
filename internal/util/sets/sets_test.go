package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New("tables", "autolink")
	s.Add("strikethrough")
	s.Add("tables")

	assert.Len(t, s, 3)
	assert.True(t, s.Has("autolink"))

	s.Delete("autolink")
	assert.False(t, s.Has("autolink"))

	clone := s.Clone()
	clone.Add("superscript")
	assert.False(t, s.Has("superscript"), "clone must not alias the original")

	assert.Equal(t, []string{"strikethrough", "tables"}, Sorted(s))
	assert.True(t, s.Equal(New("tables", "strikethrough")))
	assert.False(t, s.Equal(clone))
}
