package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/httputil"
	"github.com/matzehuels/spectromap/pkg/pipeline"
	"github.com/matzehuels/spectromap/pkg/spectro"
)

// editRequest is the body of the annotation edit endpoints. The ring is in
// render space at the given display size.
type editRequest struct {
	ScaledWidth  float64         `json:"scaled_width,omitempty"`
	ScaledHeight float64         `json:"scaled_height,omitempty"`
	Ring         []spectro.Point `json:"ring"`
}

func (s *Server) handleListRecordings(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, list)
}

func (s *Server) handleGetRecording(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Recording(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, rec)
}

func (s *Server) handleRecordingOverlay(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Recording(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.RecordingOptions(rec)
	defaults := s.renderOptions()
	opts.Style, opts.Scale, opts.Logger = defaults.Style, defaults.Scale, defaults.Logger
	opts.Layers = q.Get("layers")
	opts.Refresh = q.Get("refresh") == "true"

	if opts.ScaledWidth, err = queryFloat(q.Get("scaled_width")); err != nil {
		httputil.Error(w, r, err)
		return
	}
	if opts.ScaledHeight, err = queryFloat(q.Get("scaled_height")); err != nil {
		httputil.Error(w, r, err)
		return
	}
	if v := q.Get("selected"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.Error(w, r, errors.New(errors.ErrCodeInvalidInput, "selected must be an integer, got %q", v))
			return
		}
		opts.Selected = &id
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = queryFloat(v); err != nil {
			httputil.Error(w, r, err)
			return
		}
	}
	s.writeArtifact(w, r, opts, q.Get("format"))
}

func (s *Server) handleEditPulse(w http.ResponseWriter, r *http.Request) {
	pid, req, ok := s.decodeEdit(w, r, "pid")
	if !ok {
		return
	}
	p, err := s.runner.EditPulse(r.Context(), s.store, chi.URLParam(r, "id"), pid, req.Ring, req.ScaledWidth, req.ScaledHeight)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, p)
}

func (s *Server) handleEditSequence(w http.ResponseWriter, r *http.Request) {
	sid, req, ok := s.decodeEdit(w, r, "sid")
	if !ok {
		return
	}
	seq, err := s.runner.EditSequence(r.Context(), s.store, chi.URLParam(r, "id"), sid, req.Ring, req.ScaledWidth, req.ScaledHeight)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, seq)
}

func (s *Server) decodeEdit(w http.ResponseWriter, r *http.Request, param string) (int64, editRequest, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httputil.Error(w, r, errors.New(errors.ErrCodeInvalidInput, "annotation id must be an integer, got %q", raw))
		return 0, editRequest{}, false
	}
	var req editRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.Error(w, r, err)
		return 0, editRequest{}, false
	}
	return id, req, true
}

func queryFloat(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid number %q", v)
	}
	return f, nil
}
