package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fairyhunter13/resume-screener/internal/domain"
)

var nameBlocklist = []string{"resume", "cv", "email", "phone", "address"}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Tried in order; the first pattern matching anywhere wins.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`\d{10}`),
	regexp.MustCompile(`\d{3}[-.\s]\d{3}[-.\s]\d{4}`),
}

// ExtractName returns the first of the first five lines that looks like a
// name: at most four words, more than three characters and no header word.
func ExtractName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(strings.Fields(line)) > 4 || utf8.RuneCountInString(line) <= 3 {
			continue
		}
		if !containsAny(strings.ToLower(line), nameBlocklist) {
			return line
		}
	}
	return domain.NotFound
}

// ExtractEmail returns the first email address in text.
func ExtractEmail(text string) string {
	if m := emailPattern.FindString(text); m != "" {
		return m
	}
	return domain.NotFound
}

// ExtractPhone returns the first phone number in text.
func ExtractPhone(text string) string {
	for _, p := range phonePatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return domain.NotFound
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
