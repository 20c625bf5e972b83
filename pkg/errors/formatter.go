package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var tagMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"numeric":  "Value must be numeric",
	"url":      "Invalid URL format",
	"uuid":     "Value must be a UUID",
	"uuid4":    "Value must be a UUID",
	"e164":     "Value must be a phone number in international format",
	"datetime": "Value must be an RFC 3339 timestamp",
}

// paramMessages format tags whose parameter carries the limit.
var paramMessages = map[string]string{
	"min":   "Must be at least %s characters",
	"max":   "Must not exceed %s characters",
	"len":   "Must be exactly %s characters",
	"gt":    "Must be greater than %s",
	"gte":   "Must be greater than or equal to %s",
	"lt":    "Must be less than %s",
	"lte":   "Must be less than or equal to %s",
	"oneof": "Must be one of: %s",
}

func messageFor(fe validator.FieldError) string {
	if format, ok := paramMessages[fe.Tag()]; ok && fe.Param() != "" {
		param := fe.Param()
		if fe.Tag() == "oneof" {
			param = strings.ReplaceAll(param, " ", ", ")
		}
		return fmt.Sprintf(format, param)
	}
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	return "Invalid value"
}

// jsonName maps a struct field to the name clients sent it under.
func jsonName(structType reflect.Type, fieldName string) string {
	if structType == nil {
		return fieldName
	}
	field, ok := structType.FieldByName(fieldName)
	if !ok {
		return fieldName
	}
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fieldName
	}
	return name
}

func bodyError(message string) []ValidationErrorResponse {
	return []ValidationErrorResponse{{Field: "body", Message: message}}
}

// FormatValidationErrors turns a gin binding error into per-field messages. model is the
// request struct, used to report json field names.
func FormatValidationErrors(err error, model any) []ValidationErrorResponse {
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return bodyError("Request body is required")
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return bodyError("Request body is not valid JSON")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationErrorResponse{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Expected %s but got %s", typeErr.Type, typeErr.Value),
		}}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	var structType reflect.Type
	if model != nil {
		structType = reflect.TypeOf(model)
		if structType.Kind() == reflect.Pointer {
			structType = structType.Elem()
		}
	}

	out := make([]ValidationErrorResponse, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, ValidationErrorResponse{
			Field:   jsonName(structType, fe.StructField()),
			Message: messageFor(fe),
		})
	}
	return out
}
