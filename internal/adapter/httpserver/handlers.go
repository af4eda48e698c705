package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/resume-screener/internal/config"
	"github.com/fairyhunter13/resume-screener/internal/domain"
	"github.com/fairyhunter13/resume-screener/internal/usecase"
)

const multipartMemory = 32 << 20

// Server aggregates handlers dependencies.
type Server struct {
	Cfg        config.Config
	Screen     usecase.ScreenService
	Candidates usecase.CandidateService
	LLMCheck   func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, screen usecase.ScreenService, candidates usecase.CandidateService, llmCheck, redisCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Screen: screen, Candidates: candidates, LLMCheck: llmCheck, RedisCheck: redisCheck}
}

type uploadResponse struct {
	Success       bool                `json:"success"`
	CandidateID   string              `json:"candidate_id"`
	MatchScore    int                 `json:"match_score"`
	Justification string              `json:"justification"`
	ParsedData    domain.ParsedResume `json:"parsed_data"`
	Match         domain.MatchResult  `json:"match"`
	ScoredBy      domain.ScoreSource  `json:"scored_by"`
}

// RootHandler reports that the API is up.
func (s *Server) RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Smart Resume Screener API", "status": "running"})
	}
}

// UploadResumeHandler screens one multipart "file" against "job_description".
func (s *Server) UploadResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.acceptJSON(w, r) {
			return
		}
		if !s.parseMultipart(w, r, s.Cfg.MaxUploadMB*1024*1024) {
			return
		}
		form := screenForm{JobDescription: r.FormValue("job_description")}
		if details, err := validate(form); err != nil {
			writeError(w, r, err, details)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: file required", domain.ErrInvalidArgument), map[string]string{"field": "file"})
			return
		}
		defer func() { _ = file.Close() }()
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: file read: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		c, err := s.Screen.Screen(r.Context(), domain.Document{Filename: header.Filename, Data: data}, form.JobDescription)
		if err != nil {
			writeError(w, r, fmt.Errorf("screen: %w", err), map[string]string{"filename": header.Filename})
			return
		}
		writeJSON(w, http.StatusOK, uploadResponse{
			Success:       true,
			CandidateID:   c.ID,
			MatchScore:    c.MatchScore,
			Justification: c.Justification,
			ParsedData:    c.ParsedData,
			Match:         c.Match,
			ScoredBy:      c.ScoredBy,
		})
	}
}

// BatchUploadHandler screens every multipart "files" entry. Per-file
// failures are reported in the results and do not fail the request.
func (s *Server) BatchUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.acceptJSON(w, r) {
			return
		}
		maxFiles := s.Cfg.BatchMaxFiles
		if maxFiles <= 0 {
			maxFiles = 1
		}
		if !s.parseMultipart(w, r, s.Cfg.MaxUploadMB*1024*1024*int64(maxFiles)) {
			return
		}
		form := screenForm{JobDescription: r.FormValue("job_description")}
		if details, err := validate(form); err != nil {
			writeError(w, r, err, details)
			return
		}
		var headers []*multipart.FileHeader
		headers = append(headers, r.MultipartForm.File["files"]...)
		headers = append(headers, r.MultipartForm.File["files[]"]...)
		if len(headers) == 0 {
			writeError(w, r, fmt.Errorf("%w: files required", domain.ErrInvalidArgument), map[string]string{"field": "files"})
			return
		}
		if len(headers) > maxFiles {
			writeError(w, r, fmt.Errorf("%w: too many files", domain.ErrInvalidArgument), map[string]int{"max_files": maxFiles})
			return
		}
		docs := make([]domain.Document, 0, len(headers))
		for _, h := range headers {
			data, err := readPart(h)
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: %s read: %v", domain.ErrInvalidArgument, h.Filename, err), nil)
				return
			}
			docs = append(docs, domain.Document{Filename: h.Filename, Data: data})
		}

		items, err := s.Screen.ScreenBatch(r.Context(), docs, form.JobDescription)
		if err != nil {
			writeError(w, r, fmt.Errorf("batch: %w", err), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": items})
	}
}

// ListCandidatesHandler lists candidates scoring at least ?min_score, best first.
func (s *Server) ListCandidatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, details, err := parseMinScore(r.URL.Query().Get("min_score"))
		if err != nil {
			writeError(w, r, err, details)
			return
		}
		list, err := s.Candidates.List(r.Context(), q.MinScore)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"candidates": list})
	}
}

// GetCandidateHandler returns one candidate or 404.
func (s *Server) GetCandidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := candidatePath{ID: chi.URLParam(r, "id")}
		if details, err := validate(p); err != nil {
			writeError(w, r, err, details)
			return
		}
		c, err := s.Candidates.Get(r.Context(), p.ID)
		if err != nil {
			writeError(w, r, fmt.Errorf("candidate %s: %w", p.ID, err), nil)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// DeleteCandidateHandler removes a candidate. Unknown ids still succeed.
func (s *Server) DeleteCandidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := candidatePath{ID: chi.URLParam(r, "id")}
		if details, err := validate(p); err != nil {
			writeError(w, r, err, details)
			return
		}
		if err := s.Candidates.Delete(r.Context(), p.ID); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Candidate deleted"})
	}
}

// ReadyzHandler probes the scoring service and Redis when configured.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	probe := func(ctx context.Context, name string, fn func(context.Context) error) check {
		if err := fn(ctx); err != nil {
			return check{Name: name, OK: false, Details: err.Error()}
		}
		return check{Name: name, OK: true}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 2)
		if s.LLMCheck != nil {
			checks = append(checks, probe(ctx, "llm", s.LLMCheck))
		}
		if s.RedisCheck != nil {
			checks = append(checks, probe(ctx, "redis", s.RedisCheck))
		}
		st := http.StatusOK
		for _, c := range checks {
			if !c.OK {
				st = http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

// acceptJSON rejects requests that cannot take a JSON answer.
func (s *Server) acceptJSON(w http.ResponseWriter, r *http.Request) bool {
	a := r.Header.Get("Accept")
	if a == "" || a == "*/*" || strings.Contains(a, "application/json") || strings.Contains(a, "*/*") {
		return true
	}
	writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: "not acceptable", Details: map[string]string{"accept": a}}})
	return false
}

// parseMultipart caps the body at maxBytes and parses the form. It writes the
// error response itself and reports whether the handler may continue.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) bool {
	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{Code: "PAYLOAD_TOO_LARGE", Message: "payload too large", Details: map[string]int64{"max_mb": s.Cfg.MaxUploadMB}}})
			return false
		}
		writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
		return false
	}
	return true
}

func readPart(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}
