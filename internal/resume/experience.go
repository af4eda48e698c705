package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fairyhunter13/resume-screener/internal/domain"
	"github.com/fairyhunter13/resume-screener/pkg/textx"
)

const (
	maxExperience    = 5
	maxDetailsLength = 200
	maxEducation     = 3
	maxDegreeLength  = 100
)

var yearRange = regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(\d{4}|present|current)`)

// extractExperience pairs every date range in the experience section with the
// text around it. Without a section or a date range it returns a single
// placeholder entry.
func (p *Parser) extractExperience(text string) []domain.Experience {
	body, ok := section(text, experienceHeading, experienceEnd)
	if !ok {
		return unstructuredExperience()
	}
	matches := yearRange.FindAllStringSubmatchIndex(body, maxExperience)
	if len(matches) == 0 {
		return unstructuredExperience()
	}
	out := make([]domain.Experience, 0, len(matches))
	for _, m := range matches {
		details := window(body, m[0], m[1], p.contextBefore, p.contextAfter)
		out = append(out, domain.Experience{
			Period:  body[m[2]:m[3]] + " - " + body[m[4]:m[5]],
			Details: textx.Truncate(strings.TrimSpace(details), maxDetailsLength),
		})
	}
	return out
}

// window returns up to before characters ahead of the byte range [start,end)
// and up to after characters behind it. Radii count runes, not bytes.
func window(s string, start, end, before, after int) string {
	from := start
	for n := 0; n < before && from > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(s[:from])
		from -= size
	}
	to := end
	for n := 0; n < after && to < len(s); n++ {
		_, size := utf8.DecodeRuneInString(s[to:])
		to += size
	}
	return s[from:to]
}

func unstructuredExperience() []domain.Experience {
	return []domain.Experience{{Period: domain.UnstructuredPeriod, Details: domain.UnstructuredDetails}}
}
