package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/spectromap/pkg/errors"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeUnknownKind, http.StatusBadRequest},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeSpansSegments, http.StatusUnprocessableEntity},
		{errors.ErrCodeDegenerateRange, http.StatusUnprocessableEntity},
		{errors.ErrCodeUnsupported, http.StatusNotAcceptable},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := Status(tt.code); got != tt.want {
				t.Errorf("Status(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	var gotID string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFrom(r.Context())
		Error(w, r, errors.New(errors.ErrCodeNotFound, "recording %q not found", "x"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Code != errors.ErrCodeNotFound || body.Message == "" {
		t.Errorf("body = %+v", body)
	}
	if body.RequestID == "" || body.RequestID != gotID || rec.Header().Get(HeaderRequestID) != gotID {
		t.Errorf("request id mismatch: body %q, ctx %q, header %q", body.RequestID, gotID, rec.Header().Get(HeaderRequestID))
	}
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	id := uuid.NewString()
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != id {
		t.Errorf("header = %q, want %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got == "<script>" || got == "" {
		t.Errorf("invalid incoming id should be replaced, got %q", got)
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"a"}`, false},
		{"empty", ``, true},
		{"unknown field", `{"name":"a","extra":1}`, true},
		{"malformed", `{"name":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := Decode(httptest.NewRecorder(), req, &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err code = %s", errors.GetCode(err))
			}
		})
	}
}
