package scoring

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fairyhunter13/resume-screener/internal/domain"
	"github.com/fairyhunter13/resume-screener/pkg/textx"
)

const (
	maxListItems          = 3
	maxRecommendationLen  = 500
	errorJustificationLen = 500
	errorRecommendLen     = 300
)

func scorePattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `:?\s*(\d+)`)
}

var (
	overallScore     = scorePattern("Overall Score")
	skillsScore      = scorePattern("Skills Score")
	experienceScoreP = scorePattern("Experience Score")
	educationScore   = scorePattern("Education Score")
	culturalFitScore = scorePattern("Cultural Fit Score")
	leadershipScore  = scorePattern("Leadership Score")

	strengthsList  = regexp.MustCompile(`(?is)strengths?:\s*(.+?)(?:\n\w+:|$)`)
	gapsList       = regexp.MustCompile(`(?is)gaps?:\s*(.+?)(?:\n\w+:|$)`)
	listSeparator  = regexp.MustCompile(`[,;]|\d+\.`)
	recommendation = regexp.MustCompile(`(?is)recommendation:\s*(.+)`)
)

// Normalize turns a free-text scoring response into a bounded MatchResult.
// Missing or malformed fields fall back to defaults; it never fails.
func Normalize(response string) (res domain.MatchResult) {
	defer func() {
		if rec := recover(); rec != nil {
			res = errorResult(response)
		}
	}()

	rec := domain.NoRecommendation
	if m := recommendation.FindStringSubmatch(response); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			rec = textx.Truncate(s, maxRecommendationLen)
		}
	}
	return domain.MatchResult{
		Score:         extractScore(overallScore, response),
		Justification: rec,
		SectionScores: domain.SectionScores{
			Skills:      extractScore(skillsScore, response),
			Experience:  extractScore(experienceScoreP, response),
			Education:   extractScore(educationScore, response),
			CulturalFit: extractScore(culturalFitScore, response),
			Leadership:  extractScore(leadershipScore, response),
		},
		Strengths:      extractList(strengthsList, response),
		Gaps:           extractList(gapsList, response),
		Recommendation: rec,
	}
}

func extractScore(p *regexp.Regexp, text string) int {
	m := p.FindStringSubmatch(text)
	if m == nil {
		return domain.DefaultScore
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		// only out-of-range digit runs get here
		return domain.MaxScore
	}
	return clampScore(v)
}

func extractList(p *regexp.Regexp, text string) []string {
	out := make([]string, 0, maxListItems)
	if m := p.FindStringSubmatch(text); m != nil {
		for _, item := range listSeparator.Split(m[1], -1) {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
				if len(out) == maxListItems {
					break
				}
			}
		}
	}
	if len(out) == 0 {
		out = append(out, domain.AnalysisInProgress)
	}
	return out
}

func errorResult(response string) domain.MatchResult {
	return domain.MatchResult{
		Score:         domain.DefaultScore,
		Justification: textx.Truncate(response, errorJustificationLen),
		SectionScores: domain.SectionScores{
			Skills:      domain.DefaultScore,
			Experience:  domain.DefaultScore,
			Education:   domain.DefaultScore,
			CulturalFit: domain.DefaultScore,
			Leadership:  domain.DefaultScore,
		},
		Strengths:      []string{domain.ErrorInAnalysis},
		Gaps:           []string{domain.ErrorInAnalysis},
		Recommendation: textx.Truncate(response, errorRecommendLen),
	}
}
