package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the request rules of the
// auth API. Errors come back as field-qualified strings ("field: message"),
// one per violated rule, so handlers can drop them straight into the
// response details.

var validate = newValidator()

// letters, spaces, hyphens and apostrophes
var nameRe = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// error messages use JSON field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	})
	return v
}

// Check validates a request struct and returns one detail string per
// violated rule, or nil when the struct is valid.
func Check(s any) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"body: invalid payload"}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field()+": "+messageFor(fe))
	}
	return out
}

// PasswordDetails reports every violated password-complexity rule in one
// pass. validator short-circuits per field, so complexity lives here.
func PasswordDetails(field, pw string) []string {
	var out []string
	if len(pw) < 8 {
		out = append(out, field+": must be at least 8 characters long")
	}
	if len(pw) > 128 {
		out = append(out, field+": must be at most 128 characters long")
	}
	var lower, upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower {
		out = append(out, field+": must contain a lowercase letter")
	}
	if !upper {
		out = append(out, field+": must contain an uppercase letter")
	}
	if !digit {
		out = append(out, field+": must contain a digit")
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "personname":
		return "may only contain letters, spaces, hyphens and apostrophes"
	case "min":
		return "must be at least " + param + " characters long"
	case "max":
		return "must be at most " + param + " characters long"
	default:
		return "is invalid"
	}
}
