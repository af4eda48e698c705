package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/resume-screener/internal/domain"
	"github.com/fairyhunter13/resume-screener/internal/resume"
	"github.com/fairyhunter13/resume-screener/pkg/textx"
)

const defaultBatchConcurrency = 4

// ScreenService runs the screening pipeline: extract text, parse fields,
// score against the job description and store the candidate.
type ScreenService struct {
	Parser           *resume.Parser
	Matcher          Matcher
	Repo             domain.CandidateRepository
	BatchConcurrency int
	now              func() time.Time
}

// NewScreenService constructs a ScreenService with its dependencies.
func NewScreenService(p *resume.Parser, m Matcher, repo domain.CandidateRepository, batchConcurrency int) ScreenService {
	return ScreenService{Parser: p, Matcher: m, Repo: repo, BatchConcurrency: batchConcurrency, now: time.Now}
}

// BatchItem is the outcome of screening one file of a batch.
type BatchItem struct {
	Filename    string `json:"filename"`
	Success     bool   `json:"success"`
	CandidateID string `json:"candidate_id,omitempty"`
	Score       int    `json:"score,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Screen processes a single document and stores the resulting candidate.
func (s ScreenService) Screen(ctx domain.Context, doc domain.Document, jobDescription string) (domain.Candidate, error) {
	jobDescription = textx.SanitizeText(jobDescription)
	if jobDescription == "" {
		return domain.Candidate{}, fmt.Errorf("%w: job_description required", domain.ErrInvalidArgument)
	}
	if err := resume.CheckExtension(doc.Filename); err != nil {
		return domain.Candidate{}, err
	}

	lg := observability.LoggerFromContext(ctx)
	if detected, mismatch := resume.SniffMismatch(doc.Filename, doc.Data); mismatch {
		lg.Warn("content does not match extension",
			slog.String("filename", doc.Filename),
			slog.String("detected", detected))
	}
	parsed := s.Parser.ParseDocument(doc.Filename, doc.Data)
	if resume.IsExtractionError(parsed.RawText) {
		lg.Warn("text extraction degraded",
			slog.String("filename", doc.Filename),
			slog.String("detail", parsed.RawText))
	}
	match, source := s.Matcher.Match(ctx, parsed, jobDescription)

	c := domain.Candidate{
		Filename:       doc.Filename,
		UploadedAt:     s.clock().UTC(),
		ParsedData:     parsed,
		MatchScore:     match.Score,
		Justification:  match.Justification,
		JobDescription: jobDescription,
		Match:          match,
		ScoredBy:       source,
	}
	c, err := s.Repo.Insert(ctx, c)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("op=screen.store: %w", err)
	}
	observability.ObserveScreening(string(source), match.Score)
	lg.Info("resume screened",
		slog.String("candidate_id", c.ID),
		slog.String("filename", c.Filename),
		slog.Int("score", c.MatchScore),
		slog.String("scored_by", string(source)))
	return c, nil
}

// ScreenBatch screens docs concurrently. A failing document is reported in
// its BatchItem and never fails the batch; items keep the input order.
func (s ScreenService) ScreenBatch(ctx domain.Context, docs []domain.Document, jobDescription string) ([]BatchItem, error) {
	if textx.SanitizeText(jobDescription) == "" {
		return nil, fmt.Errorf("%w: job_description required", domain.ErrInvalidArgument)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: at least one file required", domain.ErrInvalidArgument)
	}

	items := make([]BatchItem, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			items[i] = BatchItem{Filename: doc.Filename}
			if err := gctx.Err(); err != nil {
				items[i].Error = err.Error()
				return nil
			}
			c, err := s.Screen(gctx, doc, jobDescription)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Success = true
			items[i].CandidateID = c.ID
			items[i].Score = c.MatchScore
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s ScreenService) concurrency() int {
	if s.BatchConcurrency > 0 {
		return s.BatchConcurrency
	}
	return defaultBatchConcurrency
}

func (s ScreenService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
