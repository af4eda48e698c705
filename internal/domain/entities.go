package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedMedia  = errors.New("unsupported media type")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrUpstream          = errors.New("upstream error")
	ErrCircuitOpen       = errors.New("circuit open")
	ErrInternal          = errors.New("internal error")
)

// Sentinel values substituted when extraction yields nothing.
const (
	NotFound            = "Not Found"
	AnalysisInProgress  = "Analysis in progress"
	ErrorInAnalysis     = "Error in analysis"
	NoRecommendation    = "No specific recommendation provided."
	UnstructuredPeriod  = "Not structured"
	UnstructuredDetails = "Experience details in raw text"
	DegreeNotSpecified  = "Not specified"
	YearNotAvailable    = "N/A"
)

// Score bounds shared by the normalizer and the fallback scorer.
const (
	MinScore     = 1
	MaxScore     = 10
	DefaultScore = 5
)

// Experience is one dated position found in the experience section.
type Experience struct {
	Period  string `json:"period"`
	Details string `json:"details"`
}

// Education is one degree line found in the education section. Year is only
// set on the first entry and only when a four digit year was found.
type Education struct {
	Degree string `json:"degree"`
	Year   string `json:"year,omitempty"`
}

// ParsedResume is the structured view of a resume.
// Invariants: len(Skills) <= 15; Experience and Education are never empty.
type ParsedResume struct {
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	RawText    string       `json:"raw_text"`
}

// SectionScores holds the five per-dimension scores, each in [1,10].
type SectionScores struct {
	Skills      int `json:"skills"`
	Experience  int `json:"experience"`
	Education   int `json:"education"`
	CulturalFit int `json:"cultural_fit"`
	Leadership  int `json:"leadership"`
}

// MatchResult is the normalized outcome of scoring a resume against a job.
// Invariants: all scores in [1,10]; Strengths/Gaps hold 1..3 entries;
// Recommendation is non-empty and at most 500 characters.
type MatchResult struct {
	Score          int           `json:"score"`
	Justification  string        `json:"justification"`
	SectionScores  SectionScores `json:"section_scores"`
	Strengths      []string      `json:"strengths"`
	Gaps           []string      `json:"gaps"`
	Recommendation string        `json:"recommendation"`
}

// ScoreSource records who produced the scoring response.
type ScoreSource string

const (
	ScoreSourceLLM      ScoreSource = "llm"
	ScoreSourceCache    ScoreSource = "cache"
	ScoreSourceFallback ScoreSource = "fallback"
)

// Candidate is a screened resume kept by the candidate repository.
type Candidate struct {
	ID             string       `json:"id"`
	Filename       string       `json:"filename"`
	UploadedAt     time.Time    `json:"uploaded_at"`
	ParsedData     ParsedResume `json:"parsed_data"`
	MatchScore     int          `json:"match_score"`
	Justification  string       `json:"justification"`
	JobDescription string       `json:"job_description"`
	Match          MatchResult  `json:"match"`
	ScoredBy       ScoreSource  `json:"scored_by"`
}

// CandidateFilter narrows CandidateRepository.List.
type CandidateFilter struct {
	MinScore int
}

// Repositories (ports)

// CandidateRepository stores screened candidates.
type CandidateRepository interface {
	Insert(ctx Context, c Candidate) (Candidate, error)
	// List returns candidates with MatchScore >= f.MinScore, highest score first.
	List(ctx Context, f CandidateFilter) ([]Candidate, error)
	Get(ctx Context, id string) (Candidate, error)
	Delete(ctx Context, id string) error
}

// ScoringClient (port)

// ScoringClient sends one prompt to an external language-model service and
// returns its raw text answer.
type ScoringClient interface {
	Complete(ctx Context, prompt string) (string, error)
	// Provider names the backing service for logs and metrics.
	Provider() string
}

// ResponseCache stores raw scoring responses keyed by prompt hash.
type ResponseCache interface {
	// Get reports ok=false on a miss.
	Get(ctx Context, key string) (value string, ok bool, err error)
	Set(ctx Context, key, value string) error
}

// Document is one uploaded file awaiting screening.
type Document struct {
	Filename string
	Data     []byte
}

// Context is an alias to allow decoupling from std context in domain.
type Context = context.Context
