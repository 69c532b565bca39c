// Package validator wraps go-playground/validator with a shared instance that
// reports fields by their json names.
package validator

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// ErrInvalidRequest marks struct validation failures.
var ErrInvalidRequest = errors.New("invalid request")

var (
	once     sync.Once
	validate *validator.Validate
)

// Get returns the shared validator.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "mapstructure", "yaml"} {
				name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
	return validate
}

// RequestError lists the fields that failed validation.
type RequestError struct {
	// Fields maps a field namespace to the rule it failed.
	Fields map[string]string
}

func (e *RequestError) Error() string {
	keys := lo.Keys(e.Fields)
	slices.Sort(keys)
	parts := lo.Map(keys, func(k string, _ int) string {
		return fmt.Sprintf("%s: %s", k, e.Fields[k])
	})
	return "invalid request: " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrInvalidRequest.
func (e *RequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// Struct validates v. Field failures come back as a *RequestError.
func Struct(v any) error {
	err := Get().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validation failed")
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[trimRoot(fe.Namespace())] = describe(fe)
	}
	return &RequestError{Fields: fields}
}

func trimRoot(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	if fe.Param() == "" {
		return "failed " + fe.Tag()
	}
	return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
}
