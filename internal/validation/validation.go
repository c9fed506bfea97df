// Package validation checks request payloads against their struct tag constraints
// and reports failures as per-field details
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/flashdeck/backend/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ErrMalformedBody is returned when a request body is not valid JSON of the expected shape
var ErrMalformedBody = errors.New("malformed request body")

// Error is a failed validation with one detail per invalid field
type Error struct {
	Details []models.FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Path+": "+d.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	validate   = newValidator()
	indexRegex = regexp.MustCompile(`\[(\d+)\]`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	// notblank rejects strings that are empty once trimmed
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Struct validates s and returns an *Error listing every invalid field, or nil
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate: %w", err)
	}

	details := make([]models.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, models.FieldError{
			Path:    fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}
	return &Error{Details: details}
}

// DecodeJSON decodes a JSON body into dst and validates it.
// It returns ErrMalformedBody for undecodable input and *Error for constraint failures.
func DecodeJSON(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return Struct(dst)
}

// Details extracts field details from a validation error
func Details(err error) ([]models.FieldError, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Details, true
	}
	return nil, false
}

// fieldPath turns "CreatePairsRequest.pairs[0].term_a" into "pairs.0.term_a"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	return indexRegex.ReplaceAllString(namespace, ".$1")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "To pole jest wymagane."
	case "notblank":
		return "To pole nie może być puste."
	case "email":
		return "Nieprawidłowy adres e-mail."
	case "uuid", "uuid4":
		return "Nieprawidłowy identyfikator UUID."
	case "oneof":
		return fmt.Sprintf("Dozwolone wartości: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "nefield":
		return "Języki muszą być różne."
	case "min", "gte":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Minimalna długość to %s znaków.", fe.Param())
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("Minimalna liczba elementów to %s.", fe.Param())
		default:
			return fmt.Sprintf("Wartość musi być większa lub równa %s.", fe.Param())
		}
	case "max", "lte":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Maksymalna długość to %s znaków.", fe.Param())
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("Maksymalna liczba elementów to %s.", fe.Param())
		default:
			return fmt.Sprintf("Wartość musi być mniejsza lub równa %s.", fe.Param())
		}
	case "gt":
		return fmt.Sprintf("Wartość musi być większa niż %s.", fe.Param())
	default:
		return "Nieprawidłowa wartość."
	}
}
