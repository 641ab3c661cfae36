package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/kotoba/internal/models"
)

// BleveQuery converts a pattern into a disjunction of match queries boosted by term weight.
// Each term is matched against every field; with no fields the index default field is used.
func BleveQuery(pattern *models.SearchPattern, fields ...string) query.Query {
	var disjuncts []query.Query
	for _, term := range pattern.AllTerms() {
		if term.Term == "" {
			continue
		}
		if len(fields) == 0 {
			disjuncts = append(disjuncts, matchQuery(term, ""))
			continue
		}
		for _, f := range fields {
			disjuncts = append(disjuncts, matchQuery(term, f))
		}
	}
	if len(disjuncts) == 0 {
		return bleve.NewMatchNoneQuery()
	}
	return bleve.NewDisjunctionQuery(disjuncts...)
}

func matchQuery(term models.SearchTerm, field string) *query.MatchQuery {
	q := bleve.NewMatchQuery(term.Term)
	if field != "" {
		q.SetField(field)
	}
	q.SetBoost(term.Weight)
	return q
}
