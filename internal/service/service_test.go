package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreytengan/futurepaths/internal/domain"
	"github.com/dreytengan/futurepaths/internal/labelspace"
	"github.com/dreytengan/futurepaths/internal/resume"
	"github.com/dreytengan/futurepaths/internal/service"
)

type fakePredictor struct {
	res    []domain.ScoredLabel
	err    error
	gotK   int
	gotQry []string
}

func (f *fakePredictor) PredictScored(_ context.Context, texts []string, topK int) ([][]domain.ScoredLabel, error) {
	f.gotK = topK
	f.gotQry = texts
	if f.err != nil {
		return nil, f.err
	}
	return [][]domain.ScoredLabel{f.res}, nil
}

var labels = []string{
	"esco role: data analyst \n description: analyses data and builds reports",
	"esco role: UX designer \n description: designs user interfaces",
	"esco role: nurse",
}

func TestSuggestDecodesLabels(t *testing.T) {
	fp := &fakePredictor{res: []domain.ScoredLabel{{Label: labels[0], Score: 0.91}, {Label: labels[2], Score: 0.4}}}
	svc := service.NewCareerService(fp, labels, nil)

	got, err := svc.Suggest(context.Background(), "  reporting and dashboards ", 0)
	require.NoError(t, err)
	assert.Equal(t, service.DefaultTopK, fp.gotK)
	assert.Equal(t, []string{"reporting and dashboards"}, fp.gotQry)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Suggestion{
		Title:       "Data analyst",
		Description: "analyses data and builds reports",
		Confidence:  0.91,
		SearchURL:   "https://www.google.com/search?q=Data+analyst",
	}, got[0])
	assert.Equal(t, service.NoDescription, got[1].Description)
}

func TestSuggestEmptyQuery(t *testing.T) {
	svc := service.NewCareerService(&fakePredictor{}, labels, nil)
	_, err := svc.Suggest(context.Background(), " \n", 3)
	assert.ErrorIs(t, err, service.ErrEmptyQuery)
}

func TestSuggestLexicalFallback(t *testing.T) {
	fp := &fakePredictor{err: fmt.Errorf("vector 0: %w", labelspace.ErrZeroVector)}
	svc := service.NewCareerService(fp, labels, nil)

	got, err := svc.Suggest(context.Background(), "designs interfaces", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ux designer", got[0].Title)
	assert.Greater(t, got[0].Confidence, 0.0)
}

func TestSuggestLexicalFallbackSkipsUnrelatedLabels(t *testing.T) {
	fp := &fakePredictor{err: fmt.Errorf("vector 0: %w", labelspace.ErrZeroVector)}
	svc := service.NewCareerService(fp, labels, nil)

	got, err := svc.Suggest(context.Background(), "designs interfaces", 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ux designer", got[0].Title)

	got, err = svc.Suggest(context.Background(), "quantum basket weaving", 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuggestPropagatesErrors(t *testing.T) {
	boom := errors.New("provider down")
	svc := service.NewCareerService(&fakePredictor{err: boom}, labels, nil)
	_, err := svc.Suggest(context.Background(), "anything", 3)
	assert.ErrorIs(t, err, boom)
}

func TestSplitLabel(t *testing.T) {
	cases := []struct {
		raw, title, desc string
	}{
		{"esco role: DATA scientist \n description: builds models", "Data scientist", "builds models"},
		{"software engineer", "Software engineer", service.NoDescription},
		{"", "", service.NoDescription},
	}
	for _, tc := range cases {
		title, desc := service.SplitLabel(tc.raw)
		assert.Equal(t, tc.title, title)
		assert.Equal(t, tc.desc, desc)
	}
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "héllo", service.Snippet("héllo", 5))
	assert.Equal(t, "hé...", service.Snippet("héllo", 2))
}

func TestConventionalQuery(t *testing.T) {
	p := &resume.Profile{
		MostRecentJob: &resume.Job{Title: "Data Analyst", Description: "Built dashboards"},
		Skills:        []string{"SQL", "Python"},
	}
	q, err := service.ConventionalQuery(p)
	require.NoError(t, err)
	assert.Equal(t, "Current role: Data Analyst. Responsibilities and experience include: Built dashboards. Key skills include: SQL, Python.", q)

	q, err = service.ConventionalQuery(&resume.Profile{Summary: "Seasoned nurse."})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(q, "Professional profile summary: Seasoned nurse."))

	_, err = service.ConventionalQuery(&resume.Profile{})
	assert.ErrorIs(t, err, service.ErrThinProfile)
}

func TestPivotQuery(t *testing.T) {
	p := &resume.Profile{Skills: []string{"Figma"}, Summary: "ignored"}
	q, err := service.PivotQuery(p, " sustainability ")
	require.NoError(t, err)
	assert.Equal(t, "Seeking a new role leveraging skills such as: Figma. Future career aspirations and interests include: sustainability.", q)

	q, err = service.PivotQuery(&resume.Profile{MostRecentJob: &resume.Job{Description: "Ran campaigns"}}, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(q, "Experienced in tasks such as: Ran campaigns."))
	assert.True(t, strings.HasSuffix(q, "build upon existing experience."))

	q, err = service.PivotQuery(nil, "teaching")
	require.NoError(t, err)
	assert.Equal(t, "Future career aspirations and interests include: teaching.", q)

	_, err = service.PivotQuery(&resume.Profile{}, "")
	assert.ErrorIs(t, err, service.ErrThinProfile)
}

func TestInsights(t *testing.T) {
	in := service.Insights("data analyst")
	assert.Equal(t, "€40,000 - €50,000 / year", in.Salary)
	assert.Equal(t, "https://www.google.com/search?q=data+analyst+Internships", in.GoogleURL)
	assert.Equal(t, "https://www.linkedin.com/jobs/search/?keywords=data%20analyst%20Internship", in.LinkedInURL)

	assert.Equal(t, service.NoSalaryData, service.Insights("Astronaut").Salary)
}
