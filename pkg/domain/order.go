package domain

import "fmt"

// orderRequiredFields are the fields an order must carry before it is
// accepted. Presence is all that is checked; no referential check is made
// against the lessons the order points at.
var orderRequiredFields = []string{
	"name",
	"email",
	"address",
	"city",
	"postcode",
	"phone",
	"lessonIDs",
}

// ValidateOrder checks an incoming order document. lessonIDs must be an
// ordered sequence; every other required field only has to be present and
// non-empty.
func ValidateOrder(doc Document) error {
	for _, field := range orderRequiredFields {
		value, ok := doc[field]
		if !ok || value == nil {
			return fmt.Errorf("missing required field '%s'", field)
		}
		if s, isString := value.(string); isString && s == "" {
			return fmt.Errorf("required field '%s' is empty", field)
		}
	}

	// JSON arrays decode as []interface{}
	if _, ok := doc["lessonIDs"].([]interface{}); !ok {
		return fmt.Errorf("field 'lessonIDs' must be an array of lesson ids")
	}

	return nil
}
