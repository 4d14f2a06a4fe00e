package resume

import (
	"regexp"
	"strings"
)

// Section names produced by Sections. Headers outside these groups keep
// their own capitalized name, e.g. "Certifications".
const (
	SectionExperience = "Experience"
	SectionSkills     = "Skills"
	SectionEducation  = "Education"
	SectionSummary    = "Summary"
	SectionProjects   = "Projects"
)

// Multi-word keywords precede their single-word suffixes so the longest
// header wins.
var sectionKeywords = []string{
	"work experience", "professional experience", "employment history", "experience",
	"academic background", "education",
	"technical skills", "skills", "proficiencies", "competencies",
	"personal projects", "projects",
	"summary", "objective", "profile",
	"certifications", "licenses",
	"awards", "honors",
	"publications",
	"references",
}

var sectionHeader = buildSectionHeader()

func buildSectionHeader() *regexp.Regexp {
	alts := make([]string, len(sectionKeywords))
	for i, k := range sectionKeywords {
		alts[i] = strings.ReplaceAll(k, " ", `[ \t]+`)
	}
	return regexp.MustCompile(`(?im)^[ \t]*(?:[-*•][ \t]*)?(` + strings.Join(alts, "|") + `)[ \t]*(?::|\r?\n|$)`)
}

func normalizeSection(header string) string {
	h := strings.ToLower(strings.Join(strings.Fields(header), " "))
	switch {
	case strings.Contains(h, "experience") || strings.Contains(h, "employment"):
		return SectionExperience
	case strings.Contains(h, "skill") || strings.Contains(h, "proficienc") || strings.Contains(h, "competen"):
		return SectionSkills
	case strings.Contains(h, "education") || strings.Contains(h, "academic"):
		return SectionEducation
	case strings.Contains(h, "summary") || strings.Contains(h, "profile") || strings.Contains(h, "objective"):
		return SectionSummary
	case strings.Contains(h, "project"):
		return SectionProjects
	default:
		return strings.ToUpper(h[:1]) + h[1:]
	}
}

// Sections splits résumé text at recognized headers. Repeated headers of the
// same kind are joined with a newline. Text with no recognizable header is
// returned whole as the Experience section.
func Sections(text string) map[string]string {
	sections := make(map[string]string)
	matches := sectionHeader.FindAllStringSubmatchIndex(text, -1)
	current := ""
	lastEnd := 0
	flush := func(end int) {
		if current == "" || lastEnd >= end {
			return
		}
		content := strings.TrimSpace(text[lastEnd:end])
		if prev, ok := sections[current]; ok {
			sections[current] = prev + "\n" + content
		} else {
			sections[current] = content
		}
	}
	for _, m := range matches {
		flush(m[0])
		current = normalizeSection(text[m[2]:m[3]])
		lastEnd = m[1]
	}
	flush(len(text))
	if len(sections) == 0 && strings.TrimSpace(text) != "" {
		sections[SectionExperience] = text
	}
	return sections
}
