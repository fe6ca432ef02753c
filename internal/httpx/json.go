package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// responseEnvelope is the body of every API response. Exactly one of Data and Error
// is set.
type responseEnvelope struct {
	Data  any    `json:"data,omitempty"`
	Time  string `json:"time"`
	Error any    `json:"error,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	write(w, status, responseEnvelope{Data: v})
}

func WriteError[T any](w http.ResponseWriter, status int, errBody ErrorResponse[T]) {
	write(w, status, responseEnvelope{Error: errBody})
}

func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, ErrorResponse[any]{
		Code:    ErrInternal,
		Message: "internal server error",
	})
}

// responses may carry account data or set the session cookie
func write(w http.ResponseWriter, status int, body responseEnvelope) {
	body.Time = time.Now().UTC().Format(time.RFC3339)
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
