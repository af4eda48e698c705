// Package resume turns resume documents into structured candidate records
// using heuristic text parsing. Every function here is pure and never fails:
// missing data is reported through sentinel values.
package resume

import (
	"github.com/fairyhunter13/resume-screener/internal/domain"
	"github.com/fairyhunter13/resume-screener/pkg/textx"
)

const rawTextLength = 1000

// Default context radius kept around an experience date range.
const (
	DefaultContextBefore = 100
	DefaultContextAfter  = 200
)

// Options tunes the Parser. Zero or negative values select the defaults.
type Options struct {
	Skills        []string
	ContextBefore int
	ContextAfter  int
}

// Parser extracts ParsedResume records. It is safe for concurrent use.
type Parser struct {
	skills        []string
	contextBefore int
	contextAfter  int
}

// NewParser builds a Parser from opts.
func NewParser(opts Options) *Parser {
	p := &Parser{
		skills:        DefaultSkills,
		contextBefore: DefaultContextBefore,
		contextAfter:  DefaultContextAfter,
	}
	if len(opts.Skills) > 0 {
		p.skills = append([]string(nil), opts.Skills...)
	}
	if opts.ContextBefore > 0 {
		p.contextBefore = opts.ContextBefore
	}
	if opts.ContextAfter > 0 {
		p.contextAfter = opts.ContextAfter
	}
	return p
}

// Parse extracts all fields from plain text.
func (p *Parser) Parse(text string) domain.ParsedResume {
	return domain.ParsedResume{
		Name:       ExtractName(text),
		Email:      ExtractEmail(text),
		Phone:      ExtractPhone(text),
		Skills:     p.extractSkills(text),
		Experience: p.extractExperience(text),
		Education:  ExtractEducation(text),
		RawText:    textx.Truncate(text, rawTextLength),
	}
}

// ParseDocument extracts text from a named upload and parses it.
func (p *Parser) ParseDocument(fileName string, data []byte) domain.ParsedResume {
	return p.Parse(ExtractText(fileName, data))
}
