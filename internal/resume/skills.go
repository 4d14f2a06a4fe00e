package resume

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	skillSplit  = regexp.MustCompile(`(?i)[,;/]\s*|\s+and\s+`)
	hasLetter   = regexp.MustCompile(`[a-zA-Z]`)
	allDigits   = regexp.MustCompile(`^\d+$`)
	sentenceCut = regexp.MustCompile(`[.\n]`)
)

var skillFiller = map[string]struct{}{
	"etc": {}, "various": {}, "other": {}, "strong": {}, "excellent": {}, "proficient": {}, "experience": {},
}

var commonWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {},
}

const maxFallbackSkills = 10

// Skills splits a skills section into distinct short skill phrases.
func Skills(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	text = bulletPrefix.ReplaceAllString(text, "")
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for _, s := range skillSplit.Split(line, -1) {
			s = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "."))
			if keepSkill(s) {
				out = append(out, s)
			}
		}
	}
	return unique(out)
}

func keepSkill(s string) bool {
	n := utf8.RuneCountInString(s)
	if n <= 1 || n >= 35 {
		return false
	}
	if !hasLetter.MatchString(s) || allDigits.MatchString(s) {
		return false
	}
	if _, ok := skillFiller[strings.ToLower(s)]; ok {
		return false
	}
	return len(strings.Fields(s)) <= 4
}

// skillsFromDescription picks capitalized words that do not open a sentence,
// a rough stand-in for tool and technology names.
func skillsFromDescription(desc string) []string {
	var out []string
	for _, sentence := range sentenceCut.Split(desc, -1) {
		for i, w := range strings.Fields(sentence) {
			if i == 0 || utf8.RuneCountInString(w) <= 2 || !isTitleCase(w) {
				continue
			}
			if _, ok := commonWords[strings.ToLower(w)]; ok {
				continue
			}
			out = append(out, strings.Trim(w, ",.;:"))
		}
	}
	out = unique(out)
	if len(out) > maxFallbackSkills {
		out = out[:maxFallbackSkills]
	}
	return out
}

// isTitleCase reports whether the cased letters of w are one capital
// followed by lowercase.
func isTitleCase(w string) bool {
	seenUpper := false
	prevCased := false
	cased := false
	for _, r := range w {
		switch {
		case unicode.IsUpper(r):
			if prevCased {
				return false
			}
			seenUpper = true
			prevCased = true
			cased = true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased = true
			cased = true
		default:
			prevCased = false
		}
	}
	return cased && seenUpper
}

func unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
