package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/matzehuels/treeprint/pkg/buildinfo"
	apperrors "github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/pipeline"
)

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), *opts.Records, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := graph.MarshalLayout(l)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBody(w, contentTypes[pipeline.FormatJSON], data, hit)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := requestFormat(r, opts.Formats)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	ctx := r.Context()
	l, layoutHit, err := s.runner.LayoutWithCacheInfo(ctx, *opts.Records, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, renderHit, err := s.runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBody(w, contentTypes[format], artifacts[format], layoutHit && renderHit)
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		s.writeError(w, r, bodyError(err))
		return
	}
	l, err := graph.UnmarshalLayout(body)
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid layout"))
		return
	}
	format, err := requestFormat(r, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Formats: []string{format},
		Style:   q.Get("style"),
		PanZoom: q.Get("pan_zoom") == "true",
	}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBody(w, contentTypes[format], artifacts[format], hit)
}

// =============================================================================
// Request Decoding
// =============================================================================

// decodeOptions reads pipeline options with inline records from the body.
func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return opts, bodyError(err)
	}
	if opts.Records == nil {
		return opts, apperrors.New(apperrors.ErrCodeInvalidInput, "records are required")
	}
	return opts, nil
}

// requestFormat picks the single output format from ?format= or the body.
func requestFormat(r *http.Request, formats []string) (string, error) {
	format := r.URL.Query().Get("format")
	switch {
	case format != "":
	case len(formats) == 0:
		format = pipeline.FormatSVG
	case len(formats) == 1:
		format = formats[0]
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "exactly one format per request, got %d", len(formats))
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

var errBodyTooLarge = errors.New("request body too large")

func bodyError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return errBodyTooLarge
	}
	return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body")
}

func notFound(r *http.Request) error {
	return apperrors.New(apperrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

// =============================================================================
// Responses
// =============================================================================

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	if errors.Is(err, errBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidStyle,
		apperrors.ErrCodeInvalidVizType,
		apperrors.ErrCodeInvalidConfig,
		apperrors.ErrCodeInvalidPath,
		apperrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case apperrors.ErrCodeMalformedInput, apperrors.ErrCodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(apperrors.GetCode(err))
	msg := apperrors.UserMessage(err)
	switch {
	case status == http.StatusRequestEntityTooLarge:
		code = "BODY_TOO_LARGE"
	case status == http.StatusInternalServerError:
		s.logger.Error("request failed", "id", RequestID(r.Context()), "error", err)
		code = string(apperrors.ErrCodeInternal)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatJSON])
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBody(w http.ResponseWriter, contentType string, data []byte, cacheHit bool) {
	w.Header().Set("Content-Type", contentType)
	if cacheHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
