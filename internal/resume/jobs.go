package resume

import (
	"regexp"
	"strings"
)

// Job is one entry of the experience section.
type Job struct {
	Title       string `json:"title"`
	CompanyDate string `json:"company_date_info"`
	Description string `json:"description"`
}

var (
	titleLine      = regexp.MustCompile(`(?m)^[ \t]*([A-Z][a-zA-Z \t,./()&'-]{5,60}[a-zA-Z)]|[A-Z][A-Z \t'&]{3,60}[A-Z])[ \t]*$`)
	companySuffix  = regexp.MustCompile(`(?i)\b(?:inc\.?|llc|ltd\.?|gmbh|corp\.?)(?:\W|$)|solution`)
	dateMarker     = regexp.MustCompile(`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?|present|current|to\s+date)\b|\d{1,2}[/-]\d{4}|\d{4}`)
	orgMarker      = regexp.MustCompile(`(?i)\b(?:inc\.?|llc|ltd\.?|gmbh|corp|university|college|institute)`)
	locationSuffix = regexp.MustCompile(`,\s*(?:[A-Z]{2}|[A-Za-z]+)$`)
	bulletPrefix   = regexp.MustCompile(`(?m)^[ \t]*[-*•][ \t]*`)
	lineBreakRun   = regexp.MustCompile(`[ \t\r]*\n\s*`)
)

var subheaders = map[string]struct{}{
	"responsibilities": {},
	"achievements":     {},
	"key projects":     {},
}

var roleKeywords = []string{"manager", "engineer", "developer", "analyst", "specialist"}

func isTitle(line string) bool {
	lower := strings.ToLower(line)
	if _, ok := subheaders[lower]; ok {
		return false
	}
	if companySuffix.MatchString(line) {
		return false
	}
	if strings.Count(line, ",") >= 2 {
		return false
	}
	if len(strings.Fields(line)) > 6 {
		for _, kw := range roleKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}
	return true
}

func isCompanyDateLine(line string) bool {
	return dateMarker.MatchString(line) || orgMarker.MatchString(line) || locationSuffix.MatchString(line)
}

// JobEntries finds job blocks in an experience section. A block starts at a
// title-like line; the first following line is taken as company and dates
// when it looks like one. Entries keep document order, which for most
// résumés is most recent first.
func JobEntries(experience string) []Job {
	if strings.TrimSpace(experience) == "" {
		return nil
	}
	var starts [][]int
	for _, m := range titleLine.FindAllStringIndex(experience, -1) {
		if isTitle(strings.TrimSpace(experience[m[0]:m[1]])) {
			starts = append(starts, m)
		}
	}
	var jobs []Job
	for i, m := range starts {
		title := strings.TrimSpace(experience[m[0]:m[1]])
		end := len(experience)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		var lines []string
		for _, l := range strings.Split(experience[m[1]:end], "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
		job := Job{Title: title}
		if len(lines) > 0 && isCompanyDateLine(lines[0]) {
			job.CompanyDate = lines[0]
			lines = lines[1:]
		}
		desc := bulletPrefix.ReplaceAllString(strings.Join(lines, "\n"), "")
		job.Description = strings.TrimSpace(lineBreakRun.ReplaceAllString(desc, "\n"))
		if job.Description != "" || job.CompanyDate != "" {
			jobs = append(jobs, job)
		}
	}
	return jobs
}
