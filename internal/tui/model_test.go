package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreytengan/futurepaths/internal/domain"
)

type stubService struct {
	res  []domain.Suggestion
	err  error
	topK int
}

func (s *stubService) Suggest(_ context.Context, _ string, topK int) ([]domain.Suggestion, error) {
	s.topK = topK
	return s.res, s.err
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestEnterFetchesSuggestionsAndArrowsCycle(t *testing.T) {
	svc := &stubService{res: []domain.Suggestion{
		{Title: "Data scientist", Description: "Builds models. Talks to people.", Confidence: 0.8},
		{Title: "Ux designer", Description: "Designs interfaces.", Confidence: 0.5},
	}}
	m := New(svc, 3, "")
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m.input.SetValue("data analyst")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 3, svc.topK)
	require.Len(t, m.results, 2)
	assert.Equal(t, 0, m.cursor)
	assert.Contains(t, m.status, "data analyst")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.cursor)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.cursor)

	assert.Contains(t, m.View(), "Ux designer")
}

func TestEnterShowsErrors(t *testing.T) {
	m := New(&stubService{err: errors.New("no index")}, 3, "")
	m.input.SetValue("nurse")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Error: no index", m.status)
	assert.Empty(t, m.results)
}

func TestBlankInputDoesNotQuery(t *testing.T) {
	svc := &stubService{}
	m := New(svc, 5, "")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Zero(t, svc.topK)
	assert.Contains(t, m.status, "Please enter")
}

func TestViewBeforeResize(t *testing.T) {
	assert.Equal(t, "Loading...", New(&stubService{}, 3, "").View())
}

func TestHighlightBestSentenceWithoutQuery(t *testing.T) {
	assert.Equal(t, "One. Two.", highlightBestSentence(" One. Two. ", ""))
}
