// Package validation wraps go-playground/validator with the tags and error
// formatting used across the service.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/BerylCAtieno/tubearchitect/internal/models"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared instance. Struct metadata is cached, so the
// instance must be reused rather than created per call.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		mustRegister(v, "contentstyle", func(fl validator.FieldLevel) bool {
			return models.IsContentStyle(fl.Field().String())
		})
		mustRegister(v, "timecommitment", func(fl validator.FieldLevel) bool {
			return models.IsTimeCommitment(fl.Field().String())
		})
		mustRegister(v, "constraint", func(fl validator.FieldLevel) bool {
			return models.IsProductionConstraint(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Struct validates s and returns the first failure as a readable message.
func Struct(s any) error {
	return Describe(Validator().Struct(s))
}

// StructPartial validates only the named fields (Go field names).
func StructPartial(s any, fields ...string) error {
	return Describe(Validator().StructPartial(s, fields...))
}

// FieldError is a single validation failure addressed by its JSON path.
type FieldError struct {
	Path string
	Tag  string
	Msg  string
}

func (e *FieldError) Error() string {
	return e.Msg
}

// Describe converts validator errors into a *FieldError for the first
// failing field. Other errors are returned unchanged.
func Describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	path := fieldPath(fe.Namespace())
	return &FieldError{Path: path, Tag: fe.Tag(), Msg: message(path, fe)}
}

func message(path string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", path)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", path, fe.Param())
		}
		return fmt.Sprintf("%s must contain at least %s items", path, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", path, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", path)
	case "contentstyle", "timecommitment", "constraint":
		return fmt.Sprintf("%s has an unknown value %q", path, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", path, fe.Tag())
	}
}

// fieldPath strips the root type name: "ChannelAnalysis.seoTips.tagSuggestions"
// becomes "seoTips.tagSuggestions".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}
