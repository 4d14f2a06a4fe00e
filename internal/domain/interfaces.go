package domain

import "context"

// Pair is a single (career history, next role) example.
type Pair struct {
	History string `json:"history" msgpack:"history"`
	Target  string `json:"target" msgpack:"target"`
}

// ScoredLabel is a label from the label space with its cosine similarity to a query.
type ScoredLabel struct {
	Label string
	Score float64
}

// Suggestion is a display-ready career recommendation.
type Suggestion struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
	SearchURL   string  `json:"search_url"`
}

// Embedder converts free text into numeric vectors.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Encode(ctx context.Context, texts []string) ([][]float64, error)
}

// Fingerprinter is implemented by embedders whose output depends on state
// beyond their name, such as a prepared vocabulary or a model id.
type Fingerprinter interface {
	Fingerprint() string
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// SuggestionService defines the suggestion operations exposed to the UI layers.
type SuggestionService interface {
	Suggest(ctx context.Context, query string, topK int) ([]Suggestion, error)
}
