// internal/app/system/search/search.go
package search

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
)

// IsEmailQuery reports whether the query should pivot a paged lead search
// from name-based sorting to email-based sorting. A query containing '@' is
// clearly an email search; sorting by email keeps the walk on the indexed
// path the filter uses.
func IsEmailQuery(q string) bool {
	return strings.Contains(q, "@")
}

// FoldedPrefixRange builds a prefix-match window on a case-folded field.
// The upper bound uses the highest BMP code point so every string with the
// folded prefix falls inside the range.
func FoldedPrefixRange(field, q string) bson.M {
	lo := text.Fold(strings.TrimSpace(q))
	return bson.M{field: bson.M{"$gte": lo, "$lt": lo + "￿"}}
}

// PrefixRange is FoldedPrefixRange without folding, for fields stored
// lower-case already (email).
func PrefixRange(field, q string) bson.M {
	lo := strings.ToLower(strings.TrimSpace(q))
	return bson.M{field: bson.M{"$gte": lo, "$lt": lo + "￿"}}
}

// LeadFilter builds the filter for a lead list search. Email queries match
// the email prefix only; name queries match either folded name. An empty
// query matches everything.
func LeadFilter(q string) bson.M {
	q = strings.TrimSpace(q)
	if q == "" {
		return bson.M{}
	}
	if IsEmailQuery(q) {
		return PrefixRange("email", q)
	}
	return bson.M{"$or": []bson.M{
		FoldedPrefixRange("last_name_ci", q),
		FoldedPrefixRange("first_name_ci", q),
	}}
}
