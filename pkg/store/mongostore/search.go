package mongostore

import (
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// searchFields are the lesson fields matched by substring.
var searchFields = []string{"subject", "description", "location"}

// numericSearchFields are matched exactly when the query parses as a number.
var numericSearchFields = []string{"price", "availablespaces"}

// searchFilter builds the disjunctive lesson filter: case-insensitive
// substring match on the text fields, plus exact equality on the numeric
// fields when q is numeric. An empty q yields an empty filter, which lists
// the whole collection.
func searchFilter(q string) bson.M {
	if q == "" {
		return bson.M{}
	}

	pattern := regexp.QuoteMeta(q)
	clauses := make([]bson.M, 0, len(searchFields)+len(numericSearchFields))
	for _, field := range searchFields {
		clauses = append(clauses, bson.M{
			field: primitive.Regex{Pattern: pattern, Options: "i"},
		})
	}

	if n, err := strconv.ParseFloat(q, 64); err == nil {
		for _, field := range numericSearchFields {
			clauses = append(clauses, bson.M{field: n})
		}
	}

	return bson.M{"$or": clauses}
}
