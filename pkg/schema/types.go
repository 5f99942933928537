package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "[text]").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// TextType validates strings that are not blank.
type TextType struct{}

func (t *TextType) Name() string { return "text" }

func (t *TextType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("must not be blank")
	}
	return nil
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
	length   int // -1 means any length
}

func (t *SliceType) Name() string {
	if t.length >= 0 {
		return fmt.Sprintf("[%d]%s", t.length, t.elemType.Name())
	}
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

// Len returns a copy of t that also requires exactly n elements.
func (t *SliceType) Len(n int) *SliceType {
	return &SliceType{elemType: t.elemType, length: n}
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}
	if t.length >= 0 && rv.Len() != t.length {
		return fmt.Errorf("expected %d elements, got %d", t.length, rv.Len())
	}

	var errs []error
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			errs = append(errs, prefix(fmt.Sprintf("[%d]", i), err)...)
		}
	}
	return aggregate(errs)
}

// ObjectType validates a decoded JSON object against a nested Schema.
type ObjectType struct {
	schema Schema
}

func (t *ObjectType) Name() string { return "object" }

func (t *ObjectType) Validate(value any) error {
	data, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, got %T", value)
	}
	return Validate(t.schema, data)
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Text creates a validator for non-blank strings.
func Text() Type { return &TextType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) *SliceType {
	return &SliceType{elemType: elemType, length: -1}
}

// Object creates a validator for nested objects.
func Object(s Schema) Type { return &ObjectType{schema: s} }

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// prefix pushes a path segment onto every ValidationError in err.
func prefix(segment string, err error) []error {
	var out []error
	errs := ValidationErrors(err)
	if errs == nil {
		errs = []error{err}
	}
	for _, e := range errs {
		if ve, ok := e.(*ValidationError); ok {
			key := segment
			if ve.Key != "" {
				if strings.HasPrefix(ve.Key, "[") {
					key += ve.Key
				} else {
					key += "." + ve.Key
				}
			}
			out = append(out, &ValidationError{Key: key, Reason: ve.Reason, Value: ve.Value})
			continue
		}
		out = append(out, &ValidationError{Key: segment, Reason: e.Error()})
	}
	return out
}
