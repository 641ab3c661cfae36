package search

import (
	"encoding/json"
	"testing"

	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/kotoba/internal/models"
)

func TestBleveQuery(t *testing.T) {
	p := models.NewSearchPattern("zeichn")
	p.AddTerm("zeichnet", 0.5)
	p.AddTerm("zeichen", 0.05)

	q, ok := BleveQuery(p, "name").(*query.DisjunctionQuery)
	require.True(t, ok)
	require.Len(t, q.Disjuncts, 3)

	first := q.Disjuncts[0].(*query.MatchQuery)
	assert.Equal(t, "zeichn", first.Match)
	assert.Equal(t, "name", first.FieldVal)
	assert.Equal(t, 1.0, first.Boost())

	last := q.Disjuncts[2].(*query.MatchQuery)
	assert.Equal(t, "zeichen", last.Match)
	assert.Equal(t, 0.05, last.Boost())

	_, err := json.Marshal(q)
	assert.NoError(t, err)
}

func TestBleveQuery_MultipleFields(t *testing.T) {
	p := models.NewSearchPattern("netz")
	p.AddTerm("netzwerk", 0.5)

	q := BleveQuery(p, "name", "description").(*query.DisjunctionQuery)
	assert.Len(t, q.Disjuncts, 4)
}

func TestBleveQuery_EmptyPattern(t *testing.T) {
	_, ok := BleveQuery(models.NewSearchPattern(""), "name").(*query.MatchNoneQuery)
	assert.True(t, ok)
}
