// Package dataset shapes career histories into (history, next role) pairs and
// reads and writes pair files.
package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dreytengan/futurepaths/internal/domain"
)

// Sep joins the roles of a history text.
const Sep = "<SEP>"

// Role is one experience in a career history.
type Role struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	// ESCOTitle and ESCODescription, when set, name the taxonomy occupation
	// the role was mapped to and are used for targets.
	ESCOTitle       string `json:"esco_title,omitempty"`
	ESCODescription string `json:"esco_description,omitempty"`
}

// History is one person's ordered experiences.
type History struct {
	ID    string `json:"id"`
	Roles []Role `json:"roles"`
}

// Options controls pair generation.
type Options struct {
	// MinusLast leaves the target role out of the history text.
	MinusLast bool
	// AllSubspans emits one pair per contiguous run of at least two roles
	// instead of one pair per history.
	AllSubspans bool
	// MaxSpans keeps only the last MaxSpans subspans per history. Zero keeps all.
	MaxSpans int
	// NormalizeTitles lowercases taxonomy titles and applies TitleReplacements.
	NormalizeTitles bool
}

// TitleReplacements merges taxonomy titles that were renamed or misspelled.
var TitleReplacements = map[string]string{
	"ict security engineer":        "cyber incident responder",
	"care at home worker":          "care home worker",
	"residential care home worker": "care home worker",
	"ict security manager":         "cybersecurity risk manager",
	"care at hmoe worker":          "care home worker",
	"handyman":                     "handyperson",
	"corporate banking manager":    "corporate banking adviser",
}

// NormalizeTitle trims and lowercases a title, then applies TitleReplacements.
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	if r, ok := TitleReplacements[t]; ok {
		return r
	}
	return t
}

// RoleText formats a free-text experience.
func RoleText(title, description string) string {
	return fmt.Sprintf("role: %s \n description: %s", title, description)
}

// LabelText formats a taxonomy occupation as a label.
func LabelText(title, description string) string {
	return fmt.Sprintf("esco role: %s \n description: %s", title, description)
}

// Subspans returns every contiguous run of s with length at least two,
// shortest first and left to right within a length.
func Subspans[T any](s []T) [][]T {
	var out [][]T
	for n := 2; n <= len(s); n++ {
		for i := 0; i+n <= len(s); i++ {
			out = append(out, s[i:i+n])
		}
	}
	return out
}

// Pairs turns histories into training or evaluation pairs. Roles are sorted
// by Order first. The target of a pair is the last role of its span.
func Pairs(histories []History, opts Options) []domain.Pair {
	var pairs []domain.Pair
	for _, h := range histories {
		if len(h.Roles) == 0 {
			continue
		}
		roles := append([]Role(nil), h.Roles...)
		sort.SliceStable(roles, func(i, j int) bool { return roles[i].Order < roles[j].Order })

		spans := [][]Role{roles}
		if opts.AllSubspans && len(roles) > 1 {
			spans = Subspans(roles)
			if opts.MaxSpans > 0 && len(spans) > opts.MaxSpans {
				spans = spans[len(spans)-opts.MaxSpans:]
			}
		}
		for _, span := range spans {
			pairs = append(pairs, pairFromSpan(span, opts))
		}
	}
	return pairs
}

func pairFromSpan(span []Role, opts Options) domain.Pair {
	last := span[len(span)-1]
	history := span
	if opts.MinusLast {
		history = span[:len(span)-1]
	}
	parts := make([]string, len(history))
	for i, r := range history {
		parts[i] = RoleText(r.Title, r.Description)
	}
	return domain.Pair{
		History: strings.Join(parts, Sep),
		Target:  targetText(last, opts),
	}
}

func targetText(r Role, opts Options) string {
	title, desc := r.Title, r.Description
	if r.ESCOTitle != "" {
		title = r.ESCOTitle
		if r.ESCODescription != "" {
			desc = r.ESCODescription
		}
	}
	if opts.NormalizeTitles {
		title = NormalizeTitle(title)
	}
	return LabelText(title, desc)
}

// Labels returns the distinct targets of pairs in first-seen order.
func Labels(pairs []domain.Pair) []string {
	seen := make(map[string]struct{}, len(pairs))
	var out []string
	for _, p := range pairs {
		if _, ok := seen[p.Target]; ok {
			continue
		}
		seen[p.Target] = struct{}{}
		out = append(out, p.Target)
	}
	return out
}
