package resume_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreytengan/futurepaths/internal/resume"
)

const sample = `Jane Doe
jane@example.com

Summary
Data professional with five years of analytics experience.

Experience
Senior Data Analyst
Acme Analytics Inc | Jan 2021 - Present
- Built dashboards in Tableau and Python
- Led a team of three analysts

Junior Analyst
Beta Corp, Berlin
- Cleaned data with SQL

Skills
Python, SQL; Tableau / Excel and Statistics
- Machine Learning

Education
BSc Mathematics, University of Somewhere
`

func TestSections(t *testing.T) {
	s := resume.Sections(sample)
	assert.Equal(t, "Data professional with five years of analytics experience.", s[resume.SectionSummary])
	assert.Contains(t, s[resume.SectionExperience], "Senior Data Analyst")
	assert.Equal(t, "BSc Mathematics, University of Somewhere", s[resume.SectionEducation])
	assert.Contains(t, s[resume.SectionSkills], "Machine Learning")
}

func TestSectionsNormalizeHeaders(t *testing.T) {
	text := "Professional Experience:\nEngineer things\nTechnical Skills\nGo\nCertifications\nCKA\nEmployment History\nMore things\n"
	s := resume.Sections(text)
	assert.Equal(t, "Engineer things\nMore things", s[resume.SectionExperience])
	assert.Equal(t, "Go", s[resume.SectionSkills])
	assert.Equal(t, "CKA", s["Certifications"])
}

func TestSectionsFallback(t *testing.T) {
	s := resume.Sections("just some text\nwithout headers")
	assert.Equal(t, map[string]string{resume.SectionExperience: "just some text\nwithout headers"}, s)
}

func TestJobEntries(t *testing.T) {
	jobs := resume.JobEntries(resume.Sections(sample)[resume.SectionExperience])
	require.Len(t, jobs, 2)

	assert.Equal(t, "Senior Data Analyst", jobs[0].Title)
	assert.Equal(t, "Acme Analytics Inc | Jan 2021 - Present", jobs[0].CompanyDate)
	assert.Equal(t, "Built dashboards in Tableau and Python\nLed a team of three analysts", jobs[0].Description)

	assert.Equal(t, "Junior Analyst", jobs[1].Title)
	assert.Equal(t, "Beta Corp, Berlin", jobs[1].CompanyDate)
	assert.Equal(t, "Cleaned data with SQL", jobs[1].Description)
}

func TestJobEntriesSkipsBareTitles(t *testing.T) {
	assert.Empty(t, resume.JobEntries("Software Engineer\n"))
	assert.Nil(t, resume.JobEntries("   "))
}

func TestSkills(t *testing.T) {
	got := resume.Skills("Python, SQL; Tableau / Excel and Statistics\n- Machine Learning\n* Python\nexcellent, 2020, a, etc.")
	assert.Equal(t, []string{"Python", "SQL", "Tableau", "Excel", "Statistics", "Machine Learning"}, got)
}

type stubSummarizer struct {
	out string
	err error
}

func (s stubSummarizer) Summarize(string, int) (string, error) { return s.out, s.err }

func TestParse(t *testing.T) {
	p := &resume.Parser{Summarizer: stubSummarizer{out: "unused"}}
	prof, err := p.Parse(sample)
	require.NoError(t, err)

	require.NotNil(t, prof.MostRecentJob)
	assert.Equal(t, "Senior Data Analyst", prof.MostRecentJob.Title)
	assert.Len(t, prof.Jobs, 2)
	assert.Equal(t, []string{"Python", "SQL", "Tableau", "Excel", "Statistics", "Machine Learning"}, prof.Skills)
	assert.Equal(t, "Data professional with five years of analytics experience.", prof.Summary)
	assert.Equal(t, sample, prof.FullText)
}

func TestParseFallbacks(t *testing.T) {
	text := "Experience\nMarketing Manager\nGlobex Ltd | 2019 - 2022\n- Built dashboards in Tableau and Python. Worked with the Sales team\n"
	p := &resume.Parser{Summarizer: stubSummarizer{out: "Generated summary."}}
	prof, err := p.Parse(text)
	require.NoError(t, err)

	assert.Equal(t, []string{"Tableau", "Python", "Sales"}, prof.Skills)
	assert.Equal(t, "Generated summary.", prof.Summary)
}

func TestParseSummarizerErrorIsNotFatal(t *testing.T) {
	p := &resume.Parser{Summarizer: stubSummarizer{err: errors.New("no sentences")}}
	prof, err := p.Parse("Experience\nSomething happened here\n")
	require.NoError(t, err)
	assert.Empty(t, prof.Summary)
}

func TestParseEmpty(t *testing.T) {
	_, err := (&resume.Parser{}).Parse(" \n ")
	assert.ErrorIs(t, err, resume.ErrNoText)
}

func TestParsePDFRejectsGarbage(t *testing.T) {
	_, err := (&resume.Parser{}).ParsePDF(bytes.NewReader([]byte("not a pdf")))
	assert.Error(t, err)
}
