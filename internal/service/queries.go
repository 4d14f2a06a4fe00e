package service

import (
	"errors"
	"strings"

	"github.com/dreytengan/futurepaths/internal/resume"
)

// ErrThinProfile is returned when a profile has nothing to build a query from.
var ErrThinProfile = errors.New("service: not enough profile information")

const (
	descSnippetLen    = 300
	summarySnippetLen = 500
	conventionalSkill = 15
	pivotSkills       = 20
	pivotOpenEnded    = "Open to exploring challenging new career directions and pivot opportunities that build upon existing experience."
)

// ConventionalQuery describes the profile's current trajectory: most recent
// role and responsibilities, then key skills. Without a job or skills the
// summary is used instead.
func ConventionalQuery(p *resume.Profile) (string, error) {
	if p == nil {
		return "", ErrThinProfile
	}
	var b strings.Builder
	if j := p.MostRecentJob; j != nil {
		title := j.Title
		if title == "" {
			title = "Experienced Professional"
		}
		b.WriteString("Current role: " + title + ". ")
		if j.Description != "" {
			b.WriteString("Responsibilities and experience include: " + Snippet(j.Description, descSnippetLen) + ". ")
		}
	}
	if len(p.Skills) > 0 {
		b.WriteString("Key skills include: " + strings.Join(head(p.Skills, conventionalSkill), ", ") + ".")
	}
	if b.Len() == 0 {
		if strings.TrimSpace(p.Summary) == "" {
			return "", ErrThinProfile
		}
		b.WriteString("Professional profile summary: " + Snippet(p.Summary, summarySnippetLen) + ". ")
	}
	return strings.TrimSpace(b.String()), nil
}

// PivotQuery describes what the person could carry into a new field: skills
// first, else the most recent responsibilities, else the summary, followed
// by their aspirations.
func PivotQuery(p *resume.Profile, aspirations string) (string, error) {
	aspirations = strings.TrimSpace(aspirations)
	var b strings.Builder
	if p != nil {
		switch {
		case len(p.Skills) > 0:
			b.WriteString("Seeking a new role leveraging skills such as: " + strings.Join(head(p.Skills, pivotSkills), ", ") + ". ")
		case p.MostRecentJob != nil && p.MostRecentJob.Description != "":
			b.WriteString("Experienced in tasks such as: " + Snippet(p.MostRecentJob.Description, descSnippetLen) + ". ")
		case strings.TrimSpace(p.Summary) != "":
			b.WriteString("Professional summary includes: " + Snippet(p.Summary, descSnippetLen) + ". ")
		}
	}
	if b.Len() == 0 && aspirations == "" {
		return "", ErrThinProfile
	}
	if aspirations != "" {
		b.WriteString("Future career aspirations and interests include: " + aspirations + ".")
	} else {
		b.WriteString(pivotOpenEnded)
	}
	return strings.TrimSpace(b.String()), nil
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
