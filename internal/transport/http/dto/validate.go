package dto

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names, not Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs the shared validator and converts the first failure
// into a domain error.
func checkStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.ErrInternal(err)
	}

	fe := verrs[0]
	if fe.Tag() == "required" {
		return domain.ErrMissingField(fe.Field())
	}
	return domain.ErrInvalidField(fe.Field(), failureReason(fe))
}

func failureReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "invalid format"
	case "min":
		return "min length " + fe.Param()
	case "max":
		return "max length " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
