package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fairyhunter13/resume-screener/internal/domain"
)

var (
	jobSkillPattern = regexp.MustCompile(`\b(?:python|java|javascript|react|node|sql|aws|docker|kubernetes|machine learning|ai|data science|django|fastapi|leadership|communication|teamwork)\b`)
	candidateSkills = regexp.MustCompile(`Skills: (.*)`)
	yearsPattern    = regexp.MustCompile(`(\d+)\+?\s*years?`)
)

const (
	fallbackEducationScore = 7
	strongSectionScore     = 7
)

var (
	culturalFitWords = []string{"leadership", "team", "communication"}
	seniorityWords   = []string{"senior", "lead"}
)

// FallbackScores is the outcome of the keyword heuristic before rendering.
type FallbackScores struct {
	Overall        int
	Sections       domain.SectionScores
	Strengths      []string
	Gaps           []string
	Recommendation string
}

// ComputeFallback scores a prompt without an external service. Job skills are
// the distinct vocabulary words found in the job description part of the
// prompt; a job skill matches when some listed candidate skill contains it.
func ComputeFallback(prompt string) FallbackScores {
	lower := strings.ToLower(prompt)

	jobSkills := distinct(jobSkillPattern.FindAllString(strings.ToLower(jobSection(prompt)), -1))
	var candidate []string
	if m := candidateSkills.FindStringSubmatch(prompt); m != nil {
		for _, s := range strings.Split(m[1], ",") {
			candidate = append(candidate, strings.ToLower(strings.TrimSpace(s)))
		}
	}
	matched := 0
	for _, skill := range jobSkills {
		for _, cs := range candidate {
			if strings.Contains(cs, skill) {
				matched++
				break
			}
		}
	}

	s := domain.SectionScores{
		Skills:      clampScore(int(math.Round(10 * float64(matched) / float64(max(len(jobSkills), 1))))),
		Experience:  experienceScore(lower),
		Education:   fallbackEducationScore,
		CulturalFit: 5,
		Leadership:  5,
	}
	if containsAny(lower, culturalFitWords) {
		s.CulturalFit = 6
	}
	if containsAny(lower, seniorityWords) {
		s.Leadership = 7
	}
	overall := (3*s.Skills + 3*s.Experience + 2*s.Education + s.CulturalFit + s.Leadership) / 10

	return FallbackScores{
		Overall:        overall,
		Sections:       s,
		Strengths:      fallbackStrengths(s),
		Gaps:           fallbackGaps(s),
		Recommendation: fallbackRecommendation(overall),
	}
}

// Render prints the scores in the line format the normalizer reads.
func (f FallbackScores) Render() string {
	return fmt.Sprintf(`Overall Score: %d
Skills Score: %d
Experience Score: %d
Education Score: %d
Cultural Fit Score: %d
Leadership Score: %d
Strengths: %s
Gaps: %s
Recommendation: %s`,
		f.Overall, f.Sections.Skills, f.Sections.Experience, f.Sections.Education,
		f.Sections.CulturalFit, f.Sections.Leadership,
		strings.Join(f.Strengths, ", "), strings.Join(f.Gaps, ", "), f.Recommendation)
}

// FallbackResponse scores prompt with the keyword heuristic and renders the
// result as a scoring response.
func FallbackResponse(prompt string) string {
	return ComputeFallback(prompt).Render()
}

func experienceScore(lowerPrompt string) int {
	m := yearsPattern.FindStringSubmatch(lowerPrompt)
	if m == nil {
		return domain.DefaultScore
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return domain.MaxScore
	}
	if years == 0 {
		return domain.DefaultScore
	}
	return clampScore(int(math.Round(10 * float64(years) / 5)))
}

func fallbackStrengths(s domain.SectionScores) []string {
	var out []string
	if s.Skills >= strongSectionScore {
		out = append(out, "Strong technical skill alignment")
	}
	if s.Experience >= strongSectionScore {
		out = append(out, "Relevant work experience")
	}
	if s.Leadership >= strongSectionScore {
		out = append(out, "Leadership potential")
	}
	if len(out) == 0 {
		out = []string{"Basic qualifications met", "Potential for growth", "Willingness to learn"}
	}
	return out
}

func fallbackGaps(s domain.SectionScores) []string {
	var out []string
	if s.Skills < strongSectionScore {
		out = append(out, "Some technical skills missing")
	}
	if s.Experience < strongSectionScore {
		out = append(out, "Limited relevant experience")
	}
	if s.CulturalFit < strongSectionScore {
		out = append(out, "Soft skills not clearly demonstrated")
	}
	if len(out) == 0 {
		out = []string{"Minor skill gaps", "Could improve documentation", "Additional certifications beneficial"}
	}
	return out
}

func fallbackRecommendation(overall int) string {
	rec := fmt.Sprintf("Candidate scores %d/10 overall. ", overall)
	switch {
	case overall >= 8:
		return rec + "Strong fit - highly recommend for interview. Demonstrates excellent alignment with requirements."
	case overall >= 6:
		return rec + "Moderate fit - consider for interview with additional screening. Shows potential but has some gaps."
	default:
		return rec + "Limited fit - may not meet current requirements. Consider for alternative positions or future opportunities."
	}
}

func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func clampScore(v int) int {
	return min(max(v, domain.MinScore), domain.MaxScore)
}
