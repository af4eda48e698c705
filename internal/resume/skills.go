package resume

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxSkills caps the number of skills kept per resume.
const MaxSkills = 15

// DefaultSkills is the vocabulary matched as plain substrings of the lowercased text.
var DefaultSkills = []string{
	"python", "java", "javascript", "c++", "c#", "ruby", "php", "swift", "kotlin",
	"react", "angular", "vue", "node.js", "django", "flask", "spring",
	"sql", "mysql", "postgresql", "mongodb", "oracle", "redis",
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins",
	"git", "agile", "scrum", "jira",
	"machine learning", "deep learning", "ai", "nlp", "computer vision",
	"data analysis", "data science", "statistics",
	"html", "css", "typescript", "rest api", "graphql",
	"tensorflow", "pytorch", "scikit-learn", "pandas", "numpy",
	"communication", "leadership", "teamwork", "problem solving",
}

// extractSkills unions vocabulary hits with the items listed under a Skills
// heading, title-cased and de-duplicated in first-seen order.
func (p *Parser) extractSkills(text string) []string {
	caser := cases.Title(language.English)
	lower := strings.ToLower(text)

	found := make([]string, 0, MaxSkills)
	for _, skill := range p.skills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, caser.String(skill))
		}
	}
	if body, ok := section(text, skillsHeading, skillsEnd); ok {
		for _, frag := range strings.FieldsFunc(body, isSkillDelimiter) {
			tok := strings.TrimSpace(skillToken(frag))
			if len(tok) > 2 {
				found = append(found, caser.String(tok))
			}
		}
	}
	return dedupe(found, MaxSkills)
}

func isSkillDelimiter(r rune) bool {
	switch r {
	case ',', '\n', '•', '-', '*':
		return true
	}
	return false
}

// skillToken returns the longest tail of frag that starts with a letter and
// holds only letters, whitespace, '+', '#' and '.'; "" when there is none.
func skillToken(frag string) string {
	for i := 0; i < len(frag)-1; i++ {
		if isASCIILetter(frag[i]) && allSkillChars(frag[i+1:]) {
			return frag[i:]
		}
	}
	return ""
}

func allSkillChars(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isASCIILetter(c):
		case c == ' ', c == '\t', c == '\r', c == '\f', c == '\v':
		case c == '+', c == '#', c == '.':
		default:
			return false
		}
	}
	return true
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// dedupe keeps the first occurrence of every value and at most limit values.
func dedupe(values []string, limit int) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, min(len(values), limit))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}
