package middleware

import (
	"errors"
	"net/http"

	"github.com/Shym0608/News-Panel/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const formLocalsKey = "form"

// Validator is a struct that holds the validator instance
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates the struct against its validate tags
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// FieldErrors maps each failed field to the tag it failed on.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

// ValidateForm parses the request body into a new T and validates it. A
// valid form is stored in the locals for Form; anything else is handed to
// onInvalid together with whatever could be parsed.
func ValidateForm[T any](onInvalid func(c *fiber.Ctx, form *T, err error) error) fiber.Handler {
	v := NewValidator()

	return func(c *fiber.Ctx) error {
		form := new(T)
		if err := c.BodyParser(form); err != nil {
			return onInvalid(c, form, err)
		}

		if err := v.Validate(form); err != nil {
			logger.Get().Debug().
				Str("path", c.Path()).
				Interface("fields", FieldErrors(err)).
				Msg("Form validation failed")
			return onInvalid(c, form, err)
		}

		c.Locals(formLocalsKey, form)
		return c.Next()
	}
}

// Form returns the form stored by ValidateForm.
func Form[T any](c *fiber.Ctx) *T {
	form, _ := c.Locals(formLocalsKey).(*T)
	return form
}

// ErrorPage renders the error page for status code with a user-facing message.
type ErrorPage func(c *fiber.Ctx, code int, message string) error

// NewErrorHandler returns a fiber ErrorHandler that logs the error and
// renders it through page. If rendering fails a plain text body is sent.
func NewErrorHandler(page ErrorPage) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		event := logger.Get().Error()
		if code < 500 {
			event = logger.Get().Warn()
		}
		event.
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", code).
			Msg("HTTP error")

		message := http.StatusText(code)
		if page != nil {
			renderErr := page(c.Status(code), code, message)
			if renderErr == nil {
				return nil
			}
			logger.Get().Error().Err(renderErr).Msg("Failed to render error page")
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(code).SendString(message)
	}
}
