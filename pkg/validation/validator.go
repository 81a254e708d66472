package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses json/form tag names in error details.
// - Registers alias tags shared by the handlers.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", "min=8")       // password minimum length
		v.RegisterAlias("username", "min=3,max=30,alphanum")
	}
}

// ToDetails converts binding/validation errors into a field->message map
// suitable for the error details of an API response.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min", "pwd":
		return "must be at least " + minParam(fe) + " characters"
	case "max":
		return "must be at most " + param + " characters"
	case "alphanum":
		return "must contain only letters and digits"
	case "username":
		return "must be 3-30 letters or digits"
	case "eqfield":
		return "must match " + strings.ToLower(param)
	case "uuid":
		return "must be a valid uuid"
	default:
		return "is invalid"
	}
}

func minParam(fe validator.FieldError) string {
	if fe.Tag() == "pwd" {
		return "8"
	}
	return fe.Param()
}
