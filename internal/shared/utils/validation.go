package utils

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/width"

	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/sanitize"
)

var (
	// rules registered before the router is built are replayed on gin's engine when it is wired.
	extraRules   = map[string]validator.Func{}
	extraRulesMu sync.Mutex
)

func configureValidator(v *validator.Validate) {
	// Use JSON tag names for validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("nohtml", noHTML)
	_ = v.RegisterValidation("halfwidth", halfWidth)
	_ = v.RegisterValidation("safeurl", safeURL)
}

// RegisterRule adds a custom tag to gin's binding validator.
func RegisterRule(tag string, fn validator.Func) error {
	extraRulesMu.Lock()
	extraRules[tag] = fn
	extraRulesMu.Unlock()

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := engine.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register rule %q on gin: %w", tag, err)
		}
	}
	return nil
}

// SetupGinValidator makes gin's binding validator report JSON field names and know the
// custom tags. Call once while building the router.
func SetupGinValidator() {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	configureValidator(engine)

	extraRulesMu.Lock()
	defer extraRulesMu.Unlock()
	for tag, fn := range extraRules {
		_ = engine.RegisterValidation(tag, fn)
	}
}

// noHTML rejects strings containing markup or an injection marker.
func noHTML(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.ContainsAny(s, "<>") {
		return false
	}
	return !sanitize.Detect(s)
}

// halfWidth rejects full-width forms such as "１２３", which some inputs use to smuggle digits
// past numeric checks.
func halfWidth(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if width.LookupRune(r).Kind() == width.EastAsianFullwidth {
			return false
		}
	}
	return true
}

func safeURL(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	return sanitize.URL(s) == strings.TrimSpace(s)
}

// BindingError converts an error returned by gin's ShouldBind* into an AppError.
func BindingError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		return fieldErrors(validationErrors)
	}

	var maxBytesErr *http.MaxBytesError
	if stderrors.As(err, &maxBytesErr) {
		return errors.NewPayloadTooLargeError(maxBytesErr.Limit)
	}

	return errors.NewValidationError("Invalid request body", err.Error())
}

func fieldErrors(validationErrors validator.ValidationErrors) *errors.AppError {
	fields := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		name := fieldError.Field()
		if _, exists := fields[name]; exists {
			continue
		}
		fields[name] = getFieldErrorMessage(fieldError)
	}
	return errors.NewFieldValidationError("Validation failed", fields)
}

// getFieldErrorMessage returns a user-friendly error message for a field validation error
func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s items", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s items", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters long", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "numeric":
		return fmt.Sprintf("%s must be a valid number", field)
	case "nohtml":
		return fmt.Sprintf("%s must not contain HTML or script content", field)
	case "halfwidth":
		return fmt.Sprintf("%s must not contain full-width characters", field)
	case "safeurl":
		return fmt.Sprintf("%s must be an http(s) URL or a path starting with /", field)
	case "permission":
		return fmt.Sprintf("%s contains an unknown permission", field)
	case "orderstatus":
		return fmt.Sprintf("%s is not a known order status", field)
	case "datetime":
		return fmt.Sprintf("%s must match the format %s", field, param)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, tag)
	}
}
