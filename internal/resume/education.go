package resume

import (
	"regexp"
	"strings"

	"github.com/fairyhunter13/resume-screener/internal/domain"
	"github.com/fairyhunter13/resume-screener/pkg/textx"
)

// Checked in this order; short keywords such as "be" match inside words.
var degreeKeywords = []string{"phd", "ph.d", "master", "bachelor", "mba", "b.tech", "m.tech", "b.sc", "m.sc", "be", "me"}

var graduationYear = regexp.MustCompile(`(?i)(?:graduated|graduation|year)?\s*:?\s*(\d{4})`)

// ExtractEducation records the first line of the education section holding
// each degree keyword and attaches the first year found to the first entry.
func ExtractEducation(text string) []domain.Education {
	body, ok := section(text, educationHeading, educationEnd)
	if !ok {
		return unspecifiedEducation()
	}
	lowerBody := strings.ToLower(body)
	lines := strings.Split(body, "\n")

	var out []domain.Education
	for _, degree := range degreeKeywords {
		if !strings.Contains(lowerBody, degree) {
			continue
		}
		for _, line := range lines {
			if strings.Contains(strings.ToLower(line), degree) {
				out = append(out, domain.Education{Degree: textx.Truncate(strings.TrimSpace(line), maxDegreeLength)})
				break
			}
		}
	}
	if len(out) == 0 {
		return unspecifiedEducation()
	}
	if m := graduationYear.FindStringSubmatch(body); m != nil {
		out[0].Year = m[1]
	}
	if len(out) > maxEducation {
		out = out[:maxEducation]
	}
	return out
}

func unspecifiedEducation() []domain.Education {
	return []domain.Education{{Degree: domain.DegreeNotSpecified, Year: domain.YearNotAvailable}}
}
