package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param"`
}

// Message renders the failure in plain words, keyed by the JSON field name.
func (v ValidationError) Message() string {
	switch v.Tag {
	case "required":
		return v.Field + " is required"
	case "max":
		return v.Field + " must be at most " + v.Param + " characters"
	case "min":
		return v.Field + " must be at least " + v.Param + " characters"
	}
	if v.Param != "" {
		return v.Field + " failed on " + v.Tag + "=" + v.Param
	}
	return v.Field + " failed on " + v.Tag
}

// ValidationErrors collects multiple validation failures.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	parts := make([]string, len(v))
	for i, err := range v {
		parts[i] = err.Message()
	}
	return strings.Join(parts, "; ")
}

// Has reports whether the named field failed the given tag.
func (v ValidationErrors) Has(field, tag string) bool {
	for _, err := range v {
		if err.Field == field && err.Tag == tag {
			return true
		}
	}
	return false
}

// ValidateStruct validates a struct using registered rules.
func ValidateStruct(s interface{}) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	if ve, ok := err.(validator.ValidationErrors); ok {
		failures := make(ValidationErrors, 0, len(ve))
		for _, fe := range ve {
			failures = append(failures, ValidationError{
				Field: fe.Field(),
				Tag:   fe.Tag(),
				Param: fe.Param(),
			})
		}
		return failures
	}

	return err
}

// RegisterValidation exposes underlying validator custom rules.
func RegisterValidation(tag string, fn validator.Func) error {
	return getValidator().RegisterValidation(tag, fn)
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := fld.Tag.Get("json")
			if comma := strings.Index(name, ","); comma != -1 {
				name = name[:comma]
			}
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}
