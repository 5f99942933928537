package schema

import "sort"

// Schema is a map of field names to their expected types.
// Example: {"name": Text(), "tags": Slice(String())}
type Schema map[string]Type

// Validate checks if data conforms to the schema.
// Returns an error with all validation failures found, ordered by field name.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, fieldName := range keys {
		value, exists := data[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "required",
			})
			continue
		}

		if err := schema[fieldName].Validate(value); err != nil {
			if nested := ValidationErrors(err); nested != nil {
				errs = append(errs, prefixField(fieldName, nested)...)
				continue
			}
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	return aggregate(errs)
}

func prefixField(field string, errs []error) []error {
	var out []error
	for _, e := range errs {
		out = append(out, prefix(field, e)...)
	}
	return out
}

func aggregate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}
