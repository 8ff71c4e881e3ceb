package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	custom_error "github.com/Marcelo-Rosas/container-storage/pkg/errors"
	"github.com/Marcelo-Rosas/container-storage/pkg/metadata"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationError carries field violations found after binding, e.g. by a
// service that had to look something up first.
type ValidationError struct {
	Violations Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Violations))
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: Violations{field: message}}
}

// Violations maps a payload field (json name) to a message shown next to it.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator and
// makes validation errors report json field names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form", "uri"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})

		_ = v.RegisterValidation("taxid", func(fl validator.FieldLevel) bool {
			_, err := metadata.NewTaxID(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("container_status", func(fl validator.FieldLevel) bool {
			_, err := metadata.NewStatus(fl.Field().String())
			return err == nil
		})
	})
}

// FieldErrors converts a binding error into per-field messages. Errors that
// are not validation errors (malformed JSON, wrong types) end up under "_".
func FieldErrors(err error) Violations {
	violations := Violations{}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldErr := range validationErrors {
			violations.Add(fieldPath(fieldErr), message(fieldErr))
		}
		return violations
	}

	if err != nil {
		violations["_"] = "invalid request payload"
	}
	return violations
}

// fieldPath drops the root struct name from the namespace, so nested
// payloads report "new_client.tax_id".
func fieldPath(fieldErr validator.FieldError) string {
	namespace := fieldErr.Namespace()
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return fieldErr.Field()
}

func message(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "taxid":
		return fmt.Sprintf("must have %d digits", metadata.TaxIDLength)
	case "container_status":
		return "must be one of active, inactive, closed"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "uuid":
		return "must be a valid identifier"
	case "uuid|eq=all":
		return "must be a valid identifier or all"
	case "min", "gte":
		return "must be at least " + fieldErr.Param()
	case "max", "lte":
		return "must be at most " + fieldErr.Param()
	case "oneof":
		return "must be one of " + fieldErr.Param()
	default:
		return "is invalid"
	}
}

// ConflictViolations maps a unique constraint error onto the field it
// belongs to.
func ConflictViolations(err error, byConstraint map[string]Violations) (Violations, bool) {
	var uniqueErr *custom_error.UniqueViolationError
	if !errors.As(err, &uniqueErr) {
		return nil, false
	}
	violations, ok := byConstraint[uniqueErr.Constraint()]
	return violations, ok
}
