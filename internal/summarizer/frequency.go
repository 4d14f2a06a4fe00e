// Package summarizer picks the most representative sentences of a text.
package summarizer

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrNoSentences is returned when the text has no sentence long enough to rank.
var ErrNoSentences = errors.New("summarizer: no sentences")

const defaultMinTokens = 4

var sentencePattern = regexp.MustCompile(`[^.!?\n]+(?:[.!?]+|\n|$)`)

// FrequencySummarizer ranks sentences by word frequency (stopwords filtered).
// Lines without terminal punctuation count as sentences, so résumé bullets
// are ranked like prose; fragments shorter than MinTokens such as headers
// and contact lines are skipped.
type FrequencySummarizer struct {
	MinTokens    int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		MinTokens:    defaultMinTokens,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Summarize returns up to maxSentences sentences in their original order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	var sentences []string
	var tokens [][]string
	for _, raw := range sentencePattern.FindAllString(text, -1) {
		sent := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(raw), "-*•"))
		toks := s.tokens(sent)
		if len(toks) < s.MinTokens {
			continue
		}
		sentences = append(sentences, sent)
		tokens = append(tokens, toks)
	}
	if len(sentences) == 0 {
		return "", ErrNoSentences
	}

	freq := map[string]float64{}
	for _, toks := range tokens {
		for _, tok := range toks {
			if _, ok := s.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, len(sentences))
	for i, toks := range tokens {
		sum := 0.0
		for _, tok := range toks {
			sum += freq[tok]
		}
		// Dampen long sentences.
		scores[i] = ranked{i, sum / math.Sqrt(float64(len(toks)))}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " "), nil
}

func (s *FrequencySummarizer) tokens(text string) []string {
	return s.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"i", "my", "me", "we", "our",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
