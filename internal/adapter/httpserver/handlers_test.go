package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-screener/internal/adapter/repo/memory"
	"github.com/fairyhunter13/resume-screener/internal/config"
	"github.com/fairyhunter13/resume-screener/internal/domain"
	"github.com/fairyhunter13/resume-screener/internal/resume"
	"github.com/fairyhunter13/resume-screener/internal/usecase"
)

const resumeText = `Jane Doe
jane.doe@example.com

Skills
Python, Docker, SQL

Experience
Engineer at Acme 2019 - present
`

type part struct {
	field, filename string
	data            []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newTestServer(cfg config.Config) (*Server, http.Handler) {
	if cfg.MaxUploadMB == 0 {
		cfg.MaxUploadMB = 1
	}
	if cfg.BatchMaxFiles == 0 {
		cfg.BatchMaxFiles = 3
	}
	repo := memory.NewCandidateRepo()
	screen := usecase.NewScreenService(resume.NewParser(resume.Options{}), usecase.NewMatcher(nil), repo, 2)
	srv := NewServer(cfg, screen, usecase.NewCandidateService(repo), nil, nil)

	r := chi.NewRouter()
	r.Use(RequestID())
	r.Get("/", srv.RootHandler())
	r.Post("/v1/upload-resume", srv.UploadResumeHandler())
	r.Post("/v1/batch-upload", srv.BatchUploadHandler())
	r.Get("/v1/candidates", srv.ListCandidatesHandler())
	r.Get("/v1/candidates/{id}", srv.GetCandidateHandler())
	r.Delete("/v1/candidates/{id}", srv.DeleteCandidateHandler())
	r.Get("/readyz", srv.ReadyzHandler())
	return srv, r
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func upload(t *testing.T, h http.Handler, job string, f part) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	fields := map[string]string{}
	if job != "" {
		fields["job_description"] = job
	}
	body, ct := multipartBody(t, fields, f)
	req := httptest.NewRequest(http.MethodPost, "/v1/upload-resume", body)
	req.Header.Set("Content-Type", ct)
	return do(t, h, req)
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	s, _ := e["code"].(string)
	return s
}

func TestRootHandler(t *testing.T) {
	_, h := newTestServer(config.Config{})
	rec, body := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Smart Resume Screener API", body["message"])
	assert.Equal(t, "running", body["status"])
}

func TestUploadResume_Success(t *testing.T) {
	_, h := newTestServer(config.Config{})
	rec, body := upload(t, h, "Python developer with Docker", part{"file", "jane.txt", []byte(resumeText)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["candidate_id"])
	assert.Equal(t, "fallback", body["scored_by"])
	score := body["match_score"].(float64)
	assert.GreaterOrEqual(t, score, 1.0)
	assert.LessOrEqual(t, score, 10.0)
	parsed := body["parsed_data"].(map[string]any)
	assert.Equal(t, "Jane Doe", parsed["name"])
	assert.Equal(t, "jane.doe@example.com", parsed["email"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestUploadResume_Validation(t *testing.T) {
	_, h := newTestServer(config.Config{})

	rec, body := upload(t, h, "", part{"file", "jane.txt", []byte(resumeText)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "required", details["job_description"])

	rec, body = upload(t, h, "job", part{"cv", "jane.txt", []byte(resumeText)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(body))

	rec, body = upload(t, h, "job", part{"file", "jane.docx", []byte(resumeText)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UNSUPPORTED_MEDIA", errorCode(body))

}

func TestUploadResume_UnreadableContentDegrades(t *testing.T) {
	_, h := newTestServer(config.Config{})

	rec, body := upload(t, h, "job", part{"file", "jane.pdf", []byte(resumeText)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	raw := body["parsed_data"].(map[string]any)["raw_text"].(string)
	assert.True(t, strings.HasPrefix(raw, "Error extracting PDF: "), raw)

	rec, body = upload(t, h, "job", part{"file", "empty.txt", nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Not Found", body["parsed_data"].(map[string]any)["name"])
}

func TestUploadResume_NotMultipart(t *testing.T) {
	_, h := newTestServer(config.Config{})
	req := httptest.NewRequest(http.MethodPost, "/v1/upload-resume", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec, body := do(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(body))
}

func TestUploadResume_TooLarge(t *testing.T) {
	_, h := newTestServer(config.Config{MaxUploadMB: 1})
	big := bytes.Repeat([]byte("a"), 2<<20)
	rec, body := upload(t, h, "job", part{"file", "big.txt", big})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", errorCode(body))
}

func TestUploadResume_NotAcceptable(t *testing.T) {
	_, h := newTestServer(config.Config{})
	body, ct := multipartBody(t, map[string]string{"job_description": "job"}, part{"file", "a.txt", []byte(resumeText)})
	req := httptest.NewRequest(http.MethodPost, "/v1/upload-resume", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Accept", "text/html")
	rec, _ := do(t, h, req)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestBatchUpload_PerFileResults(t *testing.T) {
	_, h := newTestServer(config.Config{})
	body, ct := multipartBody(t, map[string]string{"job_description": "Python developer"},
		part{"files", "a.txt", []byte(resumeText)},
		part{"files", "b.docx", []byte(resumeText)},
	)
	req := httptest.NewRequest(http.MethodPost, "/v1/batch-upload", body)
	req.Header.Set("Content-Type", ct)
	rec, out := do(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	results := out["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, "a.txt", first["filename"])
	assert.Equal(t, true, first["success"])
	assert.NotZero(t, first["score"])
	second := results[1].(map[string]any)
	assert.Equal(t, "b.docx", second["filename"])
	assert.Equal(t, false, second["success"])
	assert.Contains(t, second["error"], "only PDF and TXT")
}

func TestBatchUpload_Limits(t *testing.T) {
	_, h := newTestServer(config.Config{BatchMaxFiles: 1})
	body, ct := multipartBody(t, map[string]string{"job_description": "job"},
		part{"files", "a.txt", []byte(resumeText)},
		part{"files[]", "b.txt", []byte(resumeText)},
	)
	req := httptest.NewRequest(http.MethodPost, "/v1/batch-upload", body)
	req.Header.Set("Content-Type", ct)
	rec, out := do(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(out))

	body, ct = multipartBody(t, map[string]string{"job_description": "job"})
	req = httptest.NewRequest(http.MethodPost, "/v1/batch-upload", body)
	req.Header.Set("Content-Type", ct)
	rec, _ = do(t, h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCandidates_ListGetDelete(t *testing.T) {
	_, h := newTestServer(config.Config{})
	rec, body := upload(t, h, "Python developer", part{"file", "jane.txt", []byte(resumeText)})
	require.Equal(t, http.StatusOK, rec.Code)
	id := body["candidate_id"].(string)
	score := int(body["match_score"].(float64))

	rec, body = do(t, h, httptest.NewRequest(http.MethodGet, "/v1/candidates", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["candidates"], 1)

	if score < 10 {
		rec, body = do(t, h, httptest.NewRequest(http.MethodGet, "/v1/candidates?min_score=10", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, body["candidates"])
	}

	rec, body = do(t, h, httptest.NewRequest(http.MethodGet, "/v1/candidates/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "jane.txt", body["filename"])
	assert.Equal(t, "Python developer", body["job_description"])

	for i := 0; i < 2; i++ {
		rec, body = do(t, h, httptest.NewRequest(http.MethodDelete, "/v1/candidates/"+id, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Candidate deleted", body["message"])
	}

	rec, body = do(t, h, httptest.NewRequest(http.MethodGet, "/v1/candidates/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestCandidates_InvalidMinScore(t *testing.T) {
	_, h := newTestServer(config.Config{})

	rec, body := do(t, h, httptest.NewRequest(http.MethodGet, "/v1/candidates?min_score=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(body))

	rec, body = do(t, h, httptest.NewRequest(http.MethodGet, "/v1/candidates?min_score=11", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "max", details["min_score"])
}

func TestReadyz(t *testing.T) {
	srv, h := newTestServer(config.Config{})
	rec, body := do(t, h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["checks"])

	srv.LLMCheck = func(context.Context) error { return nil }
	srv.RedisCheck = func(context.Context) error { return errors.New("connection refused") }
	rec, body = do(t, h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	checks := body["checks"].([]any)
	require.Len(t, checks, 2)
	assert.Equal(t, "llm", checks[0].(map[string]any)["name"])
	assert.Equal(t, "connection refused", checks[1].(map[string]any)["details"])
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{domain.ErrUnsupportedMedia, http.StatusBadRequest, "UNSUPPORTED_MEDIA"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUpstreamTimeout, http.StatusServiceUnavailable, "UPSTREAM_TIMEOUT"},
		{domain.ErrUpstreamRateLimit, http.StatusServiceUnavailable, "UPSTREAM_RATE_LIMIT"},
		{domain.ErrCircuitOpen, http.StatusServiceUnavailable, "CIRCUIT_OPEN"},
		{domain.ErrUpstream, http.StatusBadGateway, "UPSTREAM"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			writeError(rec, req, tc.err, nil)
			assert.Equal(t, tc.status, rec.Code)
			var env errorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}
