// Package scoring builds scoring prompts, scores prompts offline with a
// keyword heuristic and normalizes free-text scoring responses into bounded
// MatchResult records.
package scoring

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/resume-screener/internal/domain"
)

// SystemPrompt is sent as the system message by chat-style scoring clients.
const SystemPrompt = "You are an expert HR recruiter with deep analytical skills."

const notSpecified = "Not specified"

// Markers delimiting the job description inside a built prompt.
const (
	jobDescriptionMarker   = "**Job Description:**"
	candidateProfileMarker = "**Candidate Profile:**"
)

const promptTemplate = `You are an expert HR recruiter with deep understanding of candidate evaluation. Analyze this candidate comprehensively.

` + jobDescriptionMarker + `
%s

` + candidateProfileMarker + `

Name: %s
Email: %s

Skills: %s

Experience:
%s

Education:
%s

**Your Task:**
Provide a comprehensive evaluation with section-wise scores (1-10 for each):

1. **Skills Match Score** (1-10): How well do technical skills align?
2. **Experience Score** (1-10): Relevant experience quality and duration?
3. **Education Score** (1-10): Educational background fit?
4. **Cultural Fit Score** (1-10): Soft skills, communication, teamwork indicators?
5. **Leadership Potential Score** (1-10): Leadership, mentorship, impact potential?

Also provide:
- **Overall Score** (1-10): Weighted average
- **Top 3 Strengths**: What makes this candidate stand out?
- **Top 3 Gaps**: What's missing or needs improvement?
- **Recommendation**: Hire/Interview/Reject with reasoning

**Output Format (STRICTLY follow this):**
Overall Score: [number]
Skills Score: [number]
Experience Score: [number]
Education Score: [number]
Cultural Fit Score: [number]
Leadership Score: [number]
Strengths: [strength1], [strength2], [strength3]
Gaps: [gap1], [gap2], [gap3]
Recommendation: [Your detailed recommendation in 2-3 sentences]

Respond with only these fields, nothing else.`

// BuildPrompt renders the scoring prompt for one resume and job description.
func BuildPrompt(r domain.ParsedResume, jobDescription string) string {
	exp := make([]string, 0, len(r.Experience))
	for _, e := range r.Experience {
		exp = append(exp, fmt.Sprintf("- %s: %s", e.Period, e.Details))
	}
	edu := make([]string, 0, len(r.Education))
	for _, e := range r.Education {
		year := e.Year
		if year == "" {
			year = domain.YearNotAvailable
		}
		edu = append(edu, fmt.Sprintf("- %s (%s)", e.Degree, year))
	}
	return fmt.Sprintf(promptTemplate,
		jobDescription,
		orNotSpecified(r.Name),
		orNotSpecified(r.Email),
		orNotSpecified(strings.Join(r.Skills, ", ")),
		orNotSpecified(strings.Join(exp, "\n")),
		orNotSpecified(strings.Join(edu, "\n")),
	)
}

func orNotSpecified(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}

// jobSection returns the job description embedded in a built prompt, or the
// whole prompt when the markers are missing.
func jobSection(prompt string) string {
	_, after, ok := strings.Cut(prompt, jobDescriptionMarker)
	if !ok {
		return prompt
	}
	job, _, ok := strings.Cut(after, candidateProfileMarker)
	if !ok {
		return prompt
	}
	return job
}
