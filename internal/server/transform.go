package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/httputil"
	"github.com/matzehuels/spectromap/pkg/overlay/sink"
	"github.com/matzehuels/spectromap/pkg/pipeline"
	"github.com/matzehuels/spectromap/pkg/spectro"
)

// annotationRequest is the body of /v1/polygon and /v1/center.
type annotationRequest struct {
	Layout       spectro.Layout  `json:"layout"`
	ScaledWidth  float64         `json:"scaled_width,omitempty"`
	ScaledHeight float64         `json:"scaled_height,omitempty"`
	Kind         string          `json:"kind"`
	Annotation   json.RawMessage `json:"annotation"`

	// Band and YScale only apply to /v1/polygon.
	Band   *[2]float64 `json:"band,omitempty"`
	YScale float64     `json:"y_scale,omitempty"`
}

func (req annotationRequest) decode() (spectro.Annotation, spectro.View, error) {
	kind, err := spectro.ParseKind(req.Kind)
	if err != nil {
		return nil, spectro.View{}, err
	}
	if len(req.Annotation) == 0 {
		return nil, spectro.View{}, errors.New(errors.ErrCodeInvalidInput, "annotation is required")
	}
	a, err := spectro.DecodeAnnotation(kind, req.Annotation)
	if err != nil {
		return nil, spectro.View{}, err
	}
	return a, req.Layout.Scaled(req.ScaledWidth, req.ScaledHeight), nil
}

// ringRequest accepts either a GeoJSON polygon (or feature) or a bare ring.
type ringRequest struct {
	Layout       spectro.Layout  `json:"layout"`
	ScaledWidth  float64         `json:"scaled_width,omitempty"`
	ScaledHeight float64         `json:"scaled_height,omitempty"`
	Polygon      json.RawMessage `json:"polygon,omitempty"`
	Ring         []spectro.Point `json:"ring,omitempty"`
}

func (req ringRequest) ring() ([]spectro.Point, error) {
	switch {
	case len(req.Polygon) > 0 && req.Ring != nil:
		return nil, errors.New(errors.ErrCodeInvalidInput, "set either polygon or ring, not both")
	case len(req.Polygon) > 0:
		return spectro.DecodeRing(req.Polygon)
	case req.Ring != nil:
		return req.Ring, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "polygon or ring is required")
	}
}

// invertResponse carries the best-effort domain values next to the error,
// so clients can inspect the -1 times of a SPANS_SEGMENTS rejection.
type invertResponse struct {
	spectro.Domain
	*httputil.ErrorBody
}

func (s *Server) handlePolygon(w http.ResponseWriter, r *http.Request) {
	var req annotationRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}
	a, view, err := req.decode()
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	var opts []spectro.BuildOption
	if req.Band != nil {
		opts = append(opts, spectro.WithBand(spectro.Band{Min: req.Band[0], Max: req.Band[1]}))
	}
	if req.YScale != 0 {
		opts = append(opts, spectro.WithYScale(req.YScale))
	}
	httputil.JSON(w, http.StatusOK, spectro.Build(a, view, opts...))
}

func (s *Server) handleInvert(w http.ResponseWriter, r *http.Request) {
	var req ringRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}
	ring, err := req.ring()
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	d, err := s.runner.Invert(r.Context(), pipeline.EditRequest{
		Layout:       req.Layout,
		ScaledWidth:  req.ScaledWidth,
		ScaledHeight: req.ScaledHeight,
		Ring:         ring,
	})
	if err != nil {
		body := &httputil.ErrorBody{
			Code:      errors.GetCode(err),
			Message:   errors.UserMessage(err),
			RequestID: httputil.RequestIDFrom(r.Context()),
		}
		httputil.JSON(w, httputil.Status(body.Code), invertResponse{Domain: d, ErrorBody: body})
		return
	}
	httputil.JSON(w, http.StatusOK, invertResponse{Domain: d})
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req ringRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}
	ring, err := req.ring()
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	p, err := spectro.Normalize(ring)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, p)
}

func (s *Server) handleCenter(w http.ResponseWriter, r *http.Request) {
	var req annotationRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}
	a, view, err := req.decode()
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	pt, err := spectro.Center(a, view)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, pt)
}

// overlayRequest is the body of /v1/overlay. Backgrounds are only drawn for
// stored recordings, never from client-supplied paths.
type overlayRequest struct {
	Layout       spectro.Layout     `json:"layout"`
	ScaledWidth  float64            `json:"scaled_width,omitempty"`
	ScaledHeight float64            `json:"scaled_height,omitempty"`
	Pulses       []spectro.Pulse    `json:"pulses,omitempty"`
	Sequences    []spectro.Sequence `json:"sequences,omitempty"`
	Selected     *int64             `json:"selected,omitempty"`
	Layers       string             `json:"layers,omitempty"`
	Format       string             `json:"format,omitempty"`
	Style        *sink.Style        `json:"style,omitempty"`
	Scale        float64            `json:"scale,omitempty"`
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	var req overlayRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}
	opts := s.renderOptions()
	opts.Layout = req.Layout
	opts.ScaledWidth, opts.ScaledHeight = req.ScaledWidth, req.ScaledHeight
	opts.Pulses, opts.Sequences = req.Pulses, req.Sequences
	opts.Selected = req.Selected
	opts.Layers = req.Layers
	if req.Style != nil {
		opts.Style = *req.Style
	}
	if req.Scale != 0 {
		opts.Scale = req.Scale
	}
	s.writeArtifact(w, r, opts, req.Format)
}

// renderOptions returns the server's default style and scale.
func (s *Server) renderOptions() pipeline.Options {
	return pipeline.Options{
		Style:  s.render.Style,
		Scale:  s.render.Scale,
		Logger: s.logger,
	}
}

func (s *Server) writeArtifact(w http.ResponseWriter, r *http.Request, opts pipeline.Options, format string) {
	if format == "" {
		format = sink.FormatSVG
	}
	format, err := sink.ParseFormat(format)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Render(r.Context(), opts)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheInfo.Hits[format] {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", sink.ContentType(format))
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}
