package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trainPairs = `{"history":"role: junior analyst \n description: cleans spreadsheets and builds data reports","target":"esco role: data analyst \n description: analyses data and builds reports"}
{"history":"role: graphic designer \n description: sketches wireframes for user interfaces","target":"esco role: UX designer \n description: designs user interfaces and wireframes"}
{"history":"role: care assistant \n description: supports patients on the ward","target":"esco role: nurse \n description: cares for patients in hospital wards"}
`

const histories = `{"id":"1","roles":[{"title":"intern","description":"makes coffee","order":0},{"title":"analyst","description":"writes reports","order":1}]}
`

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}
	train := write("train.jsonl", trainPairs)
	hist := write("histories.jsonl", histories)
	return write("config.yaml", `
log_level: error
storage:
  type: local
  local:
    dir: `+filepath.Join(dir, "artifacts")+`
data:
  train_pairs: `+train+`
  test_pairs: `+train+`
  histories: `+hist+`
`)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBuildIndexThenSuggest(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, "--config", cfg, "build-index")
	require.NoError(t, err)
	assert.Contains(t, out, "label space: 3 labels")
	assert.FileExists(t, filepath.Join(filepath.Dir(cfg), "artifacts", "labelspace.msgpack"))

	out, err = run(t, "--config", cfg, "suggest", "-k", "1", "builds", "data", "reports")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1. Data analyst"), out)
	assert.Contains(t, out, "https://www.google.com/search?q=Data+analyst")
}

func TestEvaluateWritesScores(t *testing.T) {
	cfg := setup(t)
	_, err := run(t, "--config", cfg, "build-index")
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "evaluate")
	require.NoError(t, err)
	assert.Contains(t, out, "MRR: ")
	assert.Contains(t, out, "R@10: ")
	artifacts := filepath.Join(filepath.Dir(cfg), "artifacts")
	assert.FileExists(t, filepath.Join(artifacts, "results", "scores_none.json"))
	assert.FileExists(t, filepath.Join(artifacts, "results", "predictions_none.msgpack"))
}

func TestTrainLinearNeedsLabelSpace(t *testing.T) {
	cfg := setup(t)
	_, err := run(t, "--config", cfg, "train-linear")
	assert.ErrorIs(t, err, errNoLabelSpace)
}

func TestTrainLinearWritesArtifacts(t *testing.T) {
	cfg := setup(t)
	_, err := run(t, "--config", cfg, "build-index")
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "train-linear")
	require.NoError(t, err)
	assert.Contains(t, out, "trained on 3 pairs")
	artifacts := filepath.Join(filepath.Dir(cfg), "artifacts")
	assert.FileExists(t, filepath.Join(artifacts, "transformation.msgpack"))
	assert.FileExists(t, filepath.Join(artifacts, "results", "linear_transformation_errors.json"))
}

func TestPairsFromHistories(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "--config", cfg, "pairs", "--minus-last")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"target":"esco role: analyst \n description: writes reports"`)
}

func TestInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("embedder:\n  type: word2vec\n"), 0o644))
	_, err := run(t, "--config", p, "pairs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown embedder")
}

func TestMissingConfigFileFails(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "typo.yaml"), "pairs")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "typo.yaml")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "INFO", parseLevel("").String())
}
