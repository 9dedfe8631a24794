package core

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// IsValidationError checks whether err (or its cause) is a *ValidationError.
func IsValidationError(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

// TranslateError converts validator.ValidationErrors into a *ValidationError
// with one translated FieldError per offending field; other errors pass through.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if vErrs, ok := errors.Cause(err).(validator.ValidationErrors); ok {
		flds := make([]FieldError, 0, len(vErrs))
		for _, fe := range vErrs {
			flds = append(flds, FieldError{Field: fe.Field(), Error: fe.Translate(Translator)})
		}
		return NewValidationError(errors.New("invalid input"), flds...)
	}
	return err
}
