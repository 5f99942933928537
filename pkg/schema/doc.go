// Package schema validates loosely typed data, such as decoded LLM output,
// before it is mapped onto domain types.
//
// It defines a small type system (strings, non-empty text, slices, nested
// objects and custom validators). Schemas map field names to types:
//
//	destination := schema.Schema{
//	    "name":        schema.Text(),
//	    "travel_time": schema.Text(),
//	}
//
//	list := schema.Slice(schema.Object(destination)).Len(3)
//	if err := list.Validate(decoded); err != nil {
//	    // every failure is reported with its path, e.g. [1].name
//	}
//
// Extra fields are ignored; missing fields are errors.
package schema
