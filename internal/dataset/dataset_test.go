package dataset_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreytengan/futurepaths/internal/dataset"
	"github.com/dreytengan/futurepaths/internal/domain"
)

func history() dataset.History {
	return dataset.History{ID: "p1", Roles: []dataset.Role{
		{Title: "Lead", Description: "leads", Order: 2},
		{Title: "Intern", Description: "learns", Order: 0},
		{Title: "Analyst", Description: "analyses", Order: 1, ESCOTitle: "Data Analyst", ESCODescription: "analyses data"},
	}}
}

func TestSubspans(t *testing.T) {
	got := dataset.Subspans([]int{1, 2, 3})
	assert.Equal(t, [][]int{{1, 2}, {2, 3}, {1, 2, 3}}, got)
	assert.Empty(t, dataset.Subspans([]int{1}))
}

func TestPairsWholeHistory(t *testing.T) {
	pairs := dataset.Pairs([]dataset.History{history()}, dataset.Options{MinusLast: true})
	require.Len(t, pairs, 1)
	assert.Equal(t,
		"role: Intern \n description: learns<SEP>role: Analyst \n description: analyses",
		pairs[0].History)
	assert.Equal(t, "esco role: Lead \n description: leads", pairs[0].Target)
}

func TestPairsAllSubspans(t *testing.T) {
	pairs := dataset.Pairs([]dataset.History{history()}, dataset.Options{MinusLast: true, AllSubspans: true})
	require.Len(t, pairs, 3)
	// Span [Intern, Analyst]: the target uses the taxonomy occupation.
	assert.Equal(t, "role: Intern \n description: learns", pairs[0].History)
	assert.Equal(t, "esco role: Data Analyst \n description: analyses data", pairs[0].Target)

	limited := dataset.Pairs([]dataset.History{history()}, dataset.Options{AllSubspans: true, MaxSpans: 1})
	require.Len(t, limited, 1)
	assert.Equal(t, 3, len(bytes.Split([]byte(limited[0].History), []byte(dataset.Sep))))
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "cyber incident responder", dataset.NormalizeTitle("  ICT security engineer "))
	assert.Equal(t, "handyperson", dataset.NormalizeTitle("Handyman"))
	assert.Equal(t, "nurse", dataset.NormalizeTitle("Nurse"))
}

func TestLabelsFirstSeen(t *testing.T) {
	pairs := []domain.Pair{{Target: "b"}, {Target: "a"}, {Target: "b"}}
	assert.Equal(t, []string{"b", "a"}, dataset.Labels(pairs))
}

func TestLoadPairs(t *testing.T) {
	dir := t.TempDir()

	jsonl := filepath.Join(dir, "pairs.jsonl")
	require.NoError(t, os.WriteFile(jsonl, []byte(`{"history":"h1","target":"t1"}

{"history":"h2","target":"t2"}
`), 0o644))
	got, err := dataset.LoadPairs(jsonl)
	require.NoError(t, err)
	assert.Equal(t, []domain.Pair{{History: "h1", Target: "t1"}, {History: "h2", Target: "t2"}}, got)

	csvPath := filepath.Join(dir, "pairs.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Target,History\nt1,h1\n,skipped\n"), 0o644))
	got, err = dataset.LoadPairs(csvPath)
	require.NoError(t, err)
	assert.Equal(t, []domain.Pair{{History: "h1", Target: "t1"}}, got)

	_, err = dataset.LoadPairs(filepath.Join(dir, "pairs.txt"))
	assert.Error(t, err)
}

func TestWriteThenLoadHistoriesPairs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "histories.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"p1","roles":[{"title":"A","description":"a","order":0},{"title":"B","description":"b","order":1}]}`+"\n"), 0o644))

	hs, err := dataset.LoadHistories(path)
	require.NoError(t, err)
	require.Len(t, hs, 1)

	var buf bytes.Buffer
	require.NoError(t, dataset.WritePairs(&buf, dataset.Pairs(hs, dataset.Options{MinusLast: true})))
	out := filepath.Join(dir, "pairs.jsonl")
	require.NoError(t, os.WriteFile(out, buf.Bytes(), 0o644))

	pairs, err := dataset.LoadPairs(out)
	require.NoError(t, err)
	assert.Equal(t, []domain.Pair{{History: "role: A \n description: a", Target: "esco role: B \n description: b"}}, pairs)
}
