package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"slices"
	"sort"
	"strings"
	"time"

	"bakery-api/internal/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields under their JSON names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Decimals are compared as numbers so gt/gte/lte apply to them.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// Normalizer is implemented by request types that fold alternative field
// names into their canonical fields before validation.
type Normalizer interface {
	Normalize()
}

// ValidateRequest validates v against its struct tags and returns every
// violation in a single validation error
func ValidateRequest(v any) error {
	return validateWith(v, nil)
}

// DecodeAndValidate decodes JSON request body and validates it. Fields whose
// values cannot be decoded are reported alongside the tag violations of the
// rest of the body.
func DecodeAndValidate(r *http.Request, v any) error {
	decodeErrors, err := decodeJSON(r, v)
	if err != nil {
		return err
	}
	return validateWith(v, decodeErrors)
}

func validateWith(v any, reported []ValidationError) error {
	if n, ok := v.(Normalizer); ok {
		n.Normalize()
	}

	fields := reported
	if err := validate.Struct(v); err != nil {
		tagErrors := FormatValidationErrors(err)
		if len(tagErrors) == 0 && len(reported) == 0 {
			return apperror.Internal(err)
		}
		for _, fe := range tagErrors {
			// A field that failed to decode was left zero; its tag
			// violations would only restate the decode error.
			if !slices.ContainsFunc(reported, func(r ValidationError) bool { return r.Field == fe.Field }) {
				fields = append(fields, fe)
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return apperror.Validation("validation failed", fields...)
}

// decodeJSON decodes the body into v one top-level field at a time so a bad
// value in one field does not hide the others. The returned field errors
// describe values that could not be decoded; the error is set when the body
// as a whole is unusable.
func decodeJSON(r *http.Request, v any) ([]ValidationError, error) {
	if r.Body == nil {
		return nil, apperror.Validation("request body is required")
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperror.Validation("request body could not be read")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, apperror.Validation("request body is required")
	}

	target := reflect.ValueOf(v)
	if target.Kind() != reflect.Ptr || target.Elem().Kind() != reflect.Struct {
		return nil, bodyError(json.Unmarshal(body, v))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, apperror.Validation("request body must be a JSON object")
		}
		return nil, bodyError(err)
	}
	if raw == nil {
		return nil, apperror.Validation("request body must be a JSON object")
	}

	return decodeFields(target.Elem(), raw), nil
}

func decodeFields(dst reflect.Value, raw map[string]json.RawMessage) []ValidationError {
	var fields []ValidationError
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			fields = append(fields, decodeFields(dst.Field(i), raw)...)
			continue
		}
		if !sf.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		value, ok := lookupKey(raw, name)
		if !ok {
			continue
		}

		field := dst.Field(i)
		decoded := reflect.New(sf.Type)
		if err := json.Unmarshal(value, decoded.Interface()); err != nil {
			field.Set(reflect.Zero(sf.Type))
			fields = append(fields, ValidationError{Field: name, Message: decodeErrorMessage(sf.Type, err)})
			continue
		}
		field.Set(decoded.Elem())
	}
	return fields
}

// lookupKey prefers an exact key and falls back to a case-insensitive match,
// as encoding/json does.
func lookupKey(raw map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if value, ok := raw[name]; ok {
		return value, true
	}
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.EqualFold(key, name) {
			return raw[key], true
		}
	}
	return nil, false
}

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

func decodeErrorMessage(t reflect.Type, err error) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case decimalType:
		return "Must be a number"
	case timeType:
		return "Must be an RFC 3339 date-time"
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return "Must be of type " + jsonTypeName(typeErr.Type)
	}
	return "Invalid value"
}

func bodyError(err error) error {
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return apperror.Field(typeErr.Field, "Must be of type "+jsonTypeName(typeErr.Type))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.Validation("request body is not valid JSON")
	}
	return apperror.Validation("request body contains an invalid value")
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	return "object"
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var fields []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			fields = append(fields, ValidationError{
				Field:   e.Field(),
				Message: getErrorMessage(e),
			})
		}
	}

	return fields
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "uuid", "uuid4":
		return "Must be a valid identifier"
	case "oneof":
		return "Must be one of: " + strings.Join(strings.Fields(e.Param()), ", ")
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters long"
		}
		return "Value must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters long"
		}
		return "Value must be at most " + e.Param()
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	default:
		return "Invalid value"
	}
}
