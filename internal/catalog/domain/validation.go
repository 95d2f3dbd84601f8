package domain

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/reelkeep/reelkeep/pkg/errors"
)

var validate = newValidator()

// newValidator builds the shared validator and makes it report wire field
// names (json tags) instead of Go struct field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct runs the shared validator over s and converts the first
// field error into a ValidationError.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return pkgerrors.Wrap(pkgerrors.ErrorTypeValidation, "invalid input", err)
	}

	fe := fieldErrs[0]
	constraint := fe.Tag()
	if fe.Param() != "" {
		constraint = constraint + "=" + fe.Param()
	}
	return pkgerrors.Validation(fe.Field(), constraint, fe.Value())
}
