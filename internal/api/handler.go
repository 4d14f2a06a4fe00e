// Package api exposes suggestions, résumé analysis and insights over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dreytengan/futurepaths/internal/domain"
	"github.com/dreytengan/futurepaths/internal/resume"
	"github.com/dreytengan/futurepaths/internal/service"
)

const (
	ModeConventional = "conventional"
	ModePivot        = "pivot"
)

// ResumeParser extracts a profile from an uploaded PDF.
type ResumeParser interface {
	ParsePDF(r io.Reader) (*resume.Profile, error)
}

type Options struct {
	TopK           int
	MaxUploadBytes int64
	Logger         *slog.Logger
}

type Handler struct {
	suggester domain.SuggestionService
	parser    ResumeParser
	topK      int
	maxUpload int64
	logger    *slog.Logger
}

func NewHandler(suggester domain.SuggestionService, parser ResumeParser, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = service.DefaultTopK
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Handler{
		suggester: suggester,
		parser:    parser,
		topK:      opts.TopK,
		maxUpload: opts.MaxUploadBytes,
		logger:    opts.Logger,
	}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	suggestions, err := h.suggest(r.Context(), req.Query, req.TopK)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, SuggestResponse{Query: strings.TrimSpace(req.Query), Suggestions: suggestions})
}

// HandleResume accepts a multipart form with a PDF "file", a "mode"
// (conventional or pivot), optional "aspirations" and "top_k".
func (h *Handler) HandleResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.fail(w, r, h.uploadError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	mode := strings.ToLower(strings.TrimSpace(r.FormValue("mode")))
	if mode == "" {
		mode = ModeConventional
	}
	if mode != ModeConventional && mode != ModePivot {
		h.fail(w, r, &HTTPError{Code: http.StatusBadRequest, Message: "mode must be conventional or pivot"})
		return
	}
	topK, err := parseTopK(r.FormValue("top_k"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, &HTTPError{Code: http.StatusBadRequest, Message: "missing file field"})
		return
	}
	defer file.Close()

	profile, err := h.parser.ParsePDF(file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var query string
	if mode == ModePivot {
		query, err = service.PivotQuery(profile, r.FormValue("aspirations"))
	} else {
		query, err = service.ConventionalQuery(profile)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	suggestions, err := h.suggest(r.Context(), query, topK)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, ResumeResponse{Profile: profile, Mode: mode, Query: query, Suggestions: suggestions})
}

func (h *Handler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		h.fail(w, r, &HTTPError{Code: http.StatusBadRequest, Message: "title is required"})
		return
	}
	h.ok(w, r, service.Insights(title))
}

func (h *Handler) suggest(ctx context.Context, query string, topK int) ([]domain.Suggestion, error) {
	if topK <= 0 {
		topK = h.topK
	}
	out, err := h.suggester.Suggest(ctx, query, topK)
	if out == nil && err == nil {
		out = []domain.Suggestion{}
	}
	return out, err
}

func (h *Handler) uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return &HTTPError{Code: http.StatusBadRequest, Message: "invalid multipart form: " + err.Error()}
}

func parseTopK(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, &HTTPError{Code: http.StatusBadRequest, Message: "top_k must be a non-negative integer"}
	}
	return n, nil
}

func (h *Handler) ok(w http.ResponseWriter, r *http.Request, data any) {
	if err := writeJSON(w, http.StatusOK, data); err != nil {
		h.logger.Error("write response", "reqid", RequestID(r.Context()), "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	reqID := RequestID(r.Context())
	code, msg := statusOf(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed", "reqid", reqID, "path", r.URL.Path, "error", err)
	} else {
		h.logger.Info("request rejected", "reqid", reqID, "path", r.URL.Path, "status", code, "error", err)
	}
	_ = writeJSON(w, code, ErrorResponse{Error: msg, RequestID: reqID})
}
