package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ariefcatur/go-catalog/internal/catalog"
)

// Error is an error with an HTTP status. Message is shown to the client.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(msg string) *Error   { return &Error{Status: http.StatusNotFound, Message: msg} }
func BadRequest(msg string) *Error { return &Error{Status: http.StatusBadRequest, Message: msg} }

type messageBody struct {
	Message string `json:"message"`
}

type validationBody struct {
	Message string               `json:"message"`
	Errors  []catalog.FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// handlerFunc is a handler that reports failure by returning an error.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (h *ProductsHandler) wrap(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.renderError(w, r, err)
		}
	}
}

func (h *ProductsHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr   *catalog.ValidationError
		herr   *Error
		tooBig *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, validationBody{Message: "validation failed", Errors: verr.Fields})
	case errors.Is(err, catalog.ErrMalformedBody):
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "invalid request body"})
	case errors.As(err, &tooBig):
		writeJSON(w, http.StatusRequestEntityTooLarge, messageBody{Message: "request body too large"})
	case errors.As(err, &herr):
		writeJSON(w, herr.Status, messageBody{Message: herr.Message})
	default:
		h.Log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, messageBody{Message: "internal server error"})
	}
}
