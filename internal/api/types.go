package api

import (
	"github.com/dreytengan/futurepaths/internal/domain"
	"github.com/dreytengan/futurepaths/internal/resume"
)

type SuggestRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

type SuggestResponse struct {
	Query       string              `json:"query"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

type ResumeResponse struct {
	Profile     *resume.Profile     `json:"profile"`
	Mode        string              `json:"mode"`
	Query       string              `json:"query"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
