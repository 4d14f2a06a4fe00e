// Package resume pulls a career profile out of résumé text: sections, job
// entries, skills and a summary. The heuristics target single-column
// English résumés with conventional headers.
package resume

import (
	"bytes"
	"io"
	"log/slog"
	"strings"

	"github.com/dreytengan/futurepaths/internal/domain"
)

// Profile is what Parse extracts from a résumé.
type Profile struct {
	MostRecentJob *Job     `json:"most_recent_job,omitempty"`
	Jobs          []Job    `json:"all_jobs"`
	Skills        []string `json:"skills"`
	Summary       string   `json:"summary"`
	FullText      string   `json:"-"`
}

// Parser turns résumé text into a Profile. When the résumé has no summary
// section and a Summarizer is set, the summary is generated from the text.
type Parser struct {
	Summarizer   domain.Summarizer
	MaxSentences int
	Logger       *slog.Logger
}

// Parse extracts a Profile from plain text.
func (p *Parser) Parse(text string) (*Profile, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sections := Sections(text)
	prof := &Profile{
		Summary:  sections[SectionSummary],
		FullText: text,
	}
	if exp, ok := sections[SectionExperience]; ok {
		prof.Jobs = JobEntries(exp)
		if len(prof.Jobs) > 0 {
			prof.MostRecentJob = &prof.Jobs[0]
		}
	}
	if s, ok := sections[SectionSkills]; ok {
		prof.Skills = Skills(s)
	}
	if len(prof.Skills) == 0 && prof.MostRecentJob != nil && prof.MostRecentJob.Description != "" {
		prof.Skills = skillsFromDescription(prof.MostRecentJob.Description)
	}
	if prof.Summary == "" && p.Summarizer != nil {
		n := p.MaxSentences
		if n <= 0 {
			n = 3
		}
		sum, err := p.Summarizer.Summarize(text, n)
		if err != nil {
			logger.Warn("summary fallback failed", "error", err)
		} else {
			prof.Summary = sum
		}
	}
	logger.Debug("parsed resume", "sections", len(sections), "jobs", len(prof.Jobs), "skills", len(prof.Skills))
	return prof, nil
}

// ParsePDF extracts text from a PDF and parses it.
func (p *Parser) ParsePDF(r io.Reader) (*Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text, err := ExtractText(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}
