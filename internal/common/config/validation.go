package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Enuma3lish/ultimus-sub000/internal/common/simerrors"
)

// Validate checks the validate struct tags of c. If fn is non-nil it is registered as a
// struct-level validation for each of types.
func Validate(c interface{}, fn validator.StructLevelFunc, types ...interface{}) error {
	validate := validator.New()
	if fn != nil {
		validate.RegisterStructValidation(fn, types...)
	}
	return validate.Struct(c)
}

// LogValidationErrors logs every invalid field reported by err, which is either a validator.ValidationErrors
// or the result of InvalidArguments.
func LogValidationErrors(err error) {
	var invalidArguments *multierror.Error
	if errors.As(err, &invalidArguments) {
		for _, err := range invalidArguments.Errors {
			var e *simerrors.ErrInvalidArgument
			if errors.As(err, &e) {
				log.Errorf("ConfigError: Field %s has invalid value %v: %s", e.Name, e.Value, e.Message)
			}
		}
		return
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, err := range validationErrors {
			fieldName := stripPrefix(err.Namespace())
			tag := err.Tag()
			switch tag {
			case "required":
				log.Errorf("ConfigError: Field %s is required but was not found", fieldName)
			default:
				log.Errorf("ConfigError: Field %s has invalid value %v: %s", fieldName, err.Value(), tag)
			}
		}
	}
}

func stripPrefix(s string) string {
	if idx := strings.Index(s, "."); idx != -1 {
		return s[idx+1:]
	}
	return s
}

// InvalidArguments converts validation failures into *simerrors.ErrInvalidArgument, combined with
// go-multierror. Other errors are returned unchanged.
func InvalidArguments(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	var result *multierror.Error
	for _, fieldErr := range validationErrors {
		result = multierror.Append(result, &simerrors.ErrInvalidArgument{
			Name:    stripPrefix(fieldErr.Namespace()),
			Value:   fieldErr.Value(),
			Message: "failed " + fieldErr.Tag() + " validation",
		})
	}
	return result.ErrorOrNil()
}
