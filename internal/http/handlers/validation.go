package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationErrorResponse struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report JSON names so errors match the request body.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateRequest runs the struct tags of req and describes every failure.
func validateRequest(req any) []ValidationErrorResponse {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []ValidationErrorResponse{{Description: err.Error()}}
	}

	errs := make([]ValidationErrorResponse, 0, len(ves))
	for _, fe := range ves {
		errs = append(errs, ValidationErrorResponse{
			Field:       fe.Field(),
			Description: describe(fe),
		})
	}
	return errs
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be negative", fe.Field())
	case "min", "max":
		return fmt.Sprintf("%s must have %s %s characters", fe.Field(), fe.Tag(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a %s date", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
