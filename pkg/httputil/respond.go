package httputil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/spectromap/pkg/errors"
)

// MaxBodyBytes limits request bodies read by [Decode].
const MaxBodyBytes = 4 << 20

// ErrorBody is the JSON shape of an error response.
type ErrorBody struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// Error writes err as an [ErrorBody] with the status for its code.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	JSON(w, Status(code), ErrorBody{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFrom(r.Context()),
	})
}

// Status maps an error code to an HTTP status.
func Status(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeUnknownKind:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotAcceptable
	case errors.ErrCodeInvalidGeometry, errors.ErrCodeInvalidLayout, errors.ErrCodeDegenerateRange,
		errors.ErrCodeUnrecognizedLayout, errors.ErrCodeSegmentNotFound, errors.ErrCodeSpansSegments:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON body into v, rejecting unknown fields and bodies over
// MaxBodyBytes.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
