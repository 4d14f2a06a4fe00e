// Package service turns profiles and free text into career suggestions.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/dreytengan/futurepaths/internal/domain"
	"github.com/dreytengan/futurepaths/internal/labelspace"
)

// ErrEmptyQuery is returned for blank queries.
var ErrEmptyQuery = errors.New("service: empty query")

// DefaultTopK is the number of suggestions shown when the caller asks for none.
const DefaultTopK = 3

// Predictor is the subset of the label predictor the service needs.
type Predictor interface {
	PredictScored(ctx context.Context, texts []string, topK int) ([][]domain.ScoredLabel, error)
}

// CareerService resolves queries against the label space. Queries that
// embed to nothing (for example only out-of-vocabulary words under TF-IDF)
// fall back to token overlap with the labels.
type CareerService struct {
	predictor Predictor
	labels    []string
	logger    *slog.Logger
}

var _ domain.SuggestionService = (*CareerService)(nil)

// NewCareerService creates the service. labels enables the lexical fallback
// and may be nil.
func NewCareerService(p Predictor, labels []string, logger *slog.Logger) *CareerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CareerService{predictor: p, labels: labels, logger: logger}
}

// Suggest returns up to topK suggestions for the query, best first.
func (s *CareerService) Suggest(ctx context.Context, query string, topK int) ([]domain.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	res, err := s.predictor.PredictScored(ctx, []string{query}, topK)
	if errors.Is(err, labelspace.ErrZeroVector) && len(s.labels) > 0 {
		s.logger.Debug("query has no embedding, using lexical match", "query", query)
		return toSuggestions(s.lexicalSearch(query, topK)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(res) == 0 {
		return nil, nil
	}
	return toSuggestions(res[0]), nil
}

func toSuggestions(scored []domain.ScoredLabel) []domain.Suggestion {
	out := make([]domain.Suggestion, len(scored))
	for i, sl := range scored {
		title, desc := SplitLabel(sl.Label)
		out[i] = domain.Suggestion{
			Title:       title,
			Description: desc,
			Confidence:  sl.Score,
			SearchURL:   GoogleSearchURL(title),
		}
	}
	return out
}

var unicodeWordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

func (s *CareerService) lexicalSearch(query string, topK int) []domain.ScoredLabel {
	qset := toTokenSet(query)
	type pair struct {
		idx   int
		score float64
	}
	var scores []pair
	for i, l := range s.labels {
		if score := overlapOchiai(qset, l); score > 0 {
			scores = append(scores, pair{i, score})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if topK > len(scores) {
		topK = len(scores)
	}
	out := make([]domain.ScoredLabel, topK)
	for i := range out {
		out[i] = domain.ScoredLabel{Label: s.labels[scores[i].idx], Score: scores[i].score}
	}
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// overlapOchiai is |A∩B| / sqrt(|A||B|) over unique lowercase tokens.
func overlapOchiai(qset map[string]struct{}, text string) float64 {
	seen := toTokenSet(text)
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	inter := 0
	for t := range seen {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(qset))*float64(len(seen)))
}
