package resume

import (
	"regexp"
	"strings"
)

// Section boundaries. A heading matches anywhere in the text, so a sentence
// such as "10 years experience in sales" placed above the real heading wins.
// Nested sub-sections and non-English headings are not recognised.
var (
	skillsHeading = regexp.MustCompile(`(?i)skills?:?\s*`)
	skillsEnd     = regexp.MustCompile(`(?i)\n\n|\nexperience|\neducation`)

	experienceHeading = regexp.MustCompile(`(?i)(?:experience|employment|work history):?\s*`)
	experienceEnd     = regexp.MustCompile(`(?i)\n\n(?:education|skills|projects)`)

	educationHeading = regexp.MustCompile(`(?i)(?:education|academic|qualification):?\s*`)
	educationEnd     = regexp.MustCompile(`(?i)\n\n(?:experience|skills|projects)`)
)

// section returns the text following the first heading match, up to the
// first end match or the end of text.
func section(text string, heading, end *regexp.Regexp) (string, bool) {
	loc := heading.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	body := text[loc[1]:]
	if stop := end.FindStringIndex(body); stop != nil {
		return body[:stop[0]], true
	}
	return strings.TrimSuffix(body, "\n"), true
}
