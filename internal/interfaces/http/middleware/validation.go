package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	setupOnce    sync.Once
	aliasPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

func init() {
	// Handlers bind through gin's shared validator, so the custom tags must be
	// known before the first request in every binary and test.
	SetupValidator()
}

// SetupValidator reports field errors by their json (or form) name and
// registers the service's custom tags:
//
//	dmy    a DD-MM-YYYY calendar date as used in list query parameters
//	alias  a branch alias: letters and digits only
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
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
		_ = v.RegisterValidation("dmy", func(fl validator.FieldLevel) bool {
			_, err := shared.ParseDayMonthYear(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("alias", func(fl validator.FieldLevel) bool {
			return aliasPattern.MatchString(strings.TrimSpace(fl.Field().String()))
		})
	})
}

// FormatValidationErrors turns a binding error into the error envelope.
// Decode errors carry no field details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		msg := "Request validation failed"
		if err != nil {
			msg = err.Error()
		}
		return dto.NewValidationErrorResponse(msg, requestID, nil)
	}

	details := make([]dto.ValidationDetail, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		details = append(details, dto.ValidationDetail{Field: e.Field(), Message: fieldMessage(e)})
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 with the formatted validation errors
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestIDOf(c)))
}

func requestIDOf(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}

var tagMessages = map[string]string{
	"required": "This field is required",
	"uuid":     "Invalid UUID format",
	"dive":     "Invalid list entry",
	"dmy":      "Must be a date in DD-MM-YYYY format",
	"alias":    "Must contain only letters and digits",
}

var boundMessages = map[string]string{
	"oneof": "Must be one of: ",
	"gte":   "Must be greater than or equal to ",
	"lte":   "Must be less than or equal to ",
	"gt":    "Must be greater than ",
	"lt":    "Must be less than ",
	"len":   "Must be exactly ",
}

func fieldMessage(e validator.FieldError) string {
	if msg, ok := tagMessages[e.Tag()]; ok {
		return msg
	}
	if prefix, ok := boundMessages[e.Tag()]; ok {
		return prefix + e.Param()
	}
	switch e.Tag() {
	case "min", "max":
		word := "least"
		if e.Tag() == "max" {
			word = "most"
		}
		if e.Type().Kind() == reflect.String {
			return "Must be at " + word + " " + e.Param() + " characters"
		}
		return "Must be at " + word + " " + e.Param()
	}
	return "Invalid value"
}
