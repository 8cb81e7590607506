package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// RequestIDKey is the header carrying the request ID
const RequestIDKey = "X-Request-ID"

// requestIDContextKey is the gin context key the request ID is stored under
const requestIDContextKey = "request_id"

var (
	setupOnce  sync.Once
	translator ut.Translator
)

// customTags are the lifecycle enum validators with their English messages
var customTags = []struct {
	tag     string
	valid   func(string) bool
	message string
}{
	{
		tag:     "order_status",
		valid:   func(s string) bool { return fulfillment.OrderStatus(s).IsValid() },
		message: "{0} must be a valid order status",
	},
	{
		tag:     "return_status",
		valid:   func(s string) bool { return postsale.ReturnStatus(s).IsValid() },
		message: "{0} must be a valid return status",
	},
	{
		tag:     "serial_type",
		valid:   func(s string) bool { return fulfillment.SerialType(s).IsValid() },
		message: "{0} must be one of 'Serial Number' or 'IMEI'",
	},
}

// SetupValidator configures gin's validator with JSON field names, the
// lifecycle enum tags and English messages. Safe to call more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		enLocale := en.New()
		translator, _ = ut.New(enLocale, enLocale).GetTranslator("en")

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// Use JSON tag names for field names in errors
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		_ = en_translations.RegisterDefaultTranslations(v, translator)

		for _, ct := range customTags {
			valid := ct.valid
			_ = v.RegisterValidation(ct.tag, func(fl validator.FieldLevel) bool {
				return valid(fl.Field().String())
			})
			message := ct.message
			_ = v.RegisterTranslation(ct.tag, translator,
				func(t ut.Translator) error {
					return t.Add(ct.tag, message, true)
				},
				func(t ut.Translator, fe validator.FieldError) string {
					msg, err := t.T(fe.Tag(), fe.Field())
					if err != nil {
						return fe.Error()
					}
					return msg
				})
		}
	})
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, bindErrorMessage(err), requestID)
	}

	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, dto.ValidationDetail{
			Field:   fieldPath(e),
			Message: translate(e),
		})
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

// GetRequestID extracts the request ID set by RequestID, falling back to the header
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(requestIDContextKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}

func translate(e validator.FieldError) string {
	if translator == nil {
		return e.Error()
	}
	return e.Translate(translator)
}

// fieldPath drops the top-level struct name from the namespace, keeping
// nested paths like serialNumbers[0].itemId
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func bindErrorMessage(err error) string {
	if err == nil {
		return "Invalid request"
	}
	msg := err.Error()
	if msg == "EOF" {
		return "Request body is required"
	}
	return msg
}
