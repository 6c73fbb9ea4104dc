package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
)

// StringOptions configures ValidateStringField. Fields are required unless
// Optional is set; zero lengths disable the bound.
type StringOptions struct {
	Optional       bool
	MinLength      int
	MaxLength      int
	Pattern        *regexp.Regexp
	PatternMessage string
}

// ValidateStringField checks a string value against the given constraints.
// value may be a string, a *string, or nil.
func ValidateStringField(value any, name string, opts StringOptions) FieldResult {
	s, present, ok := asString(value)
	if !ok {
		return invalid("%s must be a string", name)
	}
	if !present || blank(s) {
		if !opts.Optional {
			return invalid("%s is required", name)
		}
		if !present || s == "" {
			return valid()
		}
	}
	if opts.MinLength > 0 && length(s) < opts.MinLength {
		return invalid("%s must be at least %d characters", name, opts.MinLength)
	}
	if opts.MaxLength > 0 && length(s) > opts.MaxLength {
		return invalid("%s must be less than %d characters", name, opts.MaxLength+1)
	}
	if opts.Pattern != nil && !opts.Pattern.MatchString(s) {
		if opts.PatternMessage != "" {
			return invalid("%s", opts.PatternMessage)
		}
		return invalid("%s format is invalid", name)
	}
	return valid()
}

func asString(value any) (s string, present, ok bool) {
	switch v := value.(type) {
	case nil:
		return "", false, true
	case string:
		return v, true, true
	case *string:
		if v == nil {
			return "", false, true
		}
		return *v, true, true
	default:
		return "", false, false
	}
}

// NumberOptions configures ValidateNumberField. Min and Max are inclusive
// bounds and are ignored when nil.
type NumberOptions struct {
	Optional bool
	Min      *float64
	Max      *float64
	Integer  bool
}

// ValidateNumberField checks a numeric value of any Go numeric type or json.Number
func ValidateNumberField(value any, name string, opts NumberOptions) FieldResult {
	if value == nil {
		if opts.Optional {
			return valid()
		}
		return invalid("%s is required", name)
	}

	n, ok := asFloat(value)
	if !ok || math.IsNaN(n) {
		return invalid("%s must be a number", name)
	}
	if opts.Integer && n != math.Trunc(n) {
		return invalid("%s must be an integer", name)
	}
	if opts.Min != nil && n < *opts.Min {
		return invalid("%s must be at least %s", name, formatNumber(*opts.Min))
	}
	if opts.Max != nil && n > *opts.Max {
		return invalid("%s must be at most %s", name, formatNumber(*opts.Max))
	}
	return valid()
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// BooleanOptions configures ValidateBoolean
type BooleanOptions struct {
	Optional bool
}

// ValidateBoolean checks that value is a bool (or *bool)
func ValidateBoolean(value any, name string, opts BooleanOptions) FieldResult {
	switch v := value.(type) {
	case nil:
	case *bool:
		if v != nil {
			return valid()
		}
	case bool:
		return valid()
	default:
		return invalid("%s must be a boolean", name)
	}
	if opts.Optional {
		return valid()
	}
	return invalid("%s is required", name)
}

// ArrayOptions configures ValidateArray. Item, when set, is applied to
// every element.
type ArrayOptions[T any] struct {
	MinLength int
	MaxLength int
	Item      func(T) FieldResult
}

// ValidateArray checks the length of items and, optionally, each element.
// A nil slice is treated as missing.
func ValidateArray[T any](items []T, opts ArrayOptions[T]) Result {
	if items == nil {
		return Result{IsValid: false, Errors: []string{"Array is required"}}
	}

	var errs []string
	if opts.MinLength > 0 && len(items) < opts.MinLength {
		errs = append(errs, fmt.Sprintf("Array must have at least %d items", opts.MinLength))
	}
	if opts.MaxLength > 0 && len(items) > opts.MaxLength {
		errs = append(errs, fmt.Sprintf("Array must have no more than %d items", opts.MaxLength))
	}
	if opts.Item != nil {
		for i, item := range items {
			if r := opts.Item(item); !r.IsValid {
				errs = append(errs, fmt.Sprintf("Item at index %d: %s", i, r.Error))
			}
		}
	}
	return newResult(errs)
}

// ValidateURL requires an absolute URL with a scheme
func ValidateURL(raw string) FieldResult {
	if blank(raw) {
		return invalid("URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return invalid("Invalid URL format")
	}
	return valid()
}

// ValidateTaskID requires a positive task id
func ValidateTaskID(id int64) FieldResult {
	if id <= 0 {
		return invalid("Task ID must be a positive number")
	}
	return valid()
}

// ValidateUserID requires a positive user id
func ValidateUserID(id int64) FieldResult {
	if id <= 0 {
		return invalid("User ID must be a positive number")
	}
	return valid()
}
