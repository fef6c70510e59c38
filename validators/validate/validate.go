package validate

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct runs tag validation and returns a field -> message map, or nil
// when the struct is valid. Field names are lower-camelcased to match
// the JSON bodies they came from.
func Struct(s any) map[string]string {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		errs["request"] = "Invalid request data!"
		return errs
	}

	for _, fe := range err.(validator.ValidationErrors) {
		errs[fieldName(fe.Field())] = message(fe)
	}
	return errs
}

func fieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required!"
	case "email":
		return "Invalid email address!"
	case "gt":
		return "Must be greater than " + fe.Param() + "!"
	case "gte":
		return "Must be at least " + fe.Param() + "!"
	case "min":
		return "Must be at least " + fe.Param() + " characters!"
	case "max":
		return "Must be at most " + fe.Param() + " characters!"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "!"
	case "url":
		return "Must be a valid URL!"
	}
	return "Invalid value!"
}
