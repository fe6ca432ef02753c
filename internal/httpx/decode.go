package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20 // 1MB

// NewValidator returns the validator shared by all handlers. Field names in
// errors use the json tag. Besides the built-in tags it knows maxbytes=N,
// which bounds the UTF-8 length of a string rather than its rune count.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("maxbytes", maxBytes)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// DecodeJSON reads a single JSON object from r into dst and validates it. On
// failure it writes the error response and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v *validator.Validate, logger *zap.Logger, dst any) bool {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		WriteError(w, http.StatusUnsupportedMediaType, ErrorResponse[any]{
			Code:    ErrUnsupportedMedia,
			Message: "Content-Type must be application/json",
		})
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		logger.Warn("failed to decode request body", zap.Error(err))
		WriteError(w, http.StatusBadRequest, ErrorResponse[any]{
			Code:    ErrInvalidJSON,
			Message: "invalid request body",
		})
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF { // check if there's any trailing data
		logger.Warn("trailing data after JSON body", zap.Error(err))
		WriteError(w, http.StatusBadRequest, ErrorResponse[any]{
			Code:    ErrInvalidJSON,
			Message: "request body must contain a single JSON object",
		})
		return false
	}

	if err := v.Struct(dst); err != nil {
		logger.Warn("request validation failed", zap.Error(err))
		WriteError(w, http.StatusUnprocessableEntity, ErrorResponse[[]FieldError]{
			Code:    ErrValidationFailed,
			Message: "validation failed",
			Details: ValidationDetails(err),
		})
		return false
	}
	return true
}
