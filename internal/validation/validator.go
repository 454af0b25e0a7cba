package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Errors maps a JSON field name to its messages.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Validator checks request structs declared with `validate` tags.
type Validator struct {
	v *validator.Validate
}

// New builds a validator with the project's custom tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		return domain.IsSupportedLanguage(fl.Field().String())
	})
	_ = v.RegisterValidation("source_language", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		return code == domain.AutoDetectLanguage || domain.IsSupportedLanguage(code)
	})

	return &Validator{v: v}
}

// Struct validates s and returns field errors, or nil when s is valid.
func (val *Validator) Struct(s any) Errors {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"_": {err.Error()}}
	}

	out := Errors{}
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		if isString {
			return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("The %s must not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must not be greater than %s.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid. Allowed values: %s.", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", strings.ToLower(fe.Param()))
	case "language":
		return "Invalid target language. Please check supported languages."
	case "source_language":
		return "Invalid source language. Please check supported languages."
	}
	return fmt.Sprintf("The %s is invalid.", field)
}
