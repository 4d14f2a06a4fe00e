package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dreytengan/futurepaths/internal/domain"
)

const maxLine = 4 << 20

// LoadPairs reads pairs from a .jsonl file of {"history","target"} objects
// or a .csv file with history and target columns.
func LoadPairs(path string) ([]domain.Pair, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jsonl":
		return loadPairsJSONL(path)
	case ".csv":
		return loadPairsCSV(path)
	default:
		return nil, fmt.Errorf("unsupported pair file format: %s (supported: .csv, .jsonl)", ext)
	}
}

func loadPairsJSONL(path string) ([]domain.Pair, error) {
	var pairs []domain.Pair
	err := eachJSONLine(path, func(line int, data []byte) error {
		var p domain.Pair
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if p.History == "" || p.Target == "" {
			return fmt.Errorf("%s:%d: history and target are required", path, line)
		}
		pairs = append(pairs, p)
		return nil
	})
	return pairs, err
}

func loadPairsCSV(path string) ([]domain.Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty CSV file", path)
	}
	historyIdx, targetIdx := -1, -1
	for i, col := range records[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "history":
			historyIdx = i
		case "target":
			targetIdx = i
		}
	}
	if historyIdx == -1 || targetIdx == -1 {
		return nil, fmt.Errorf("%s: CSV must contain 'history' and 'target' columns", path)
	}
	var pairs []domain.Pair
	for _, rec := range records[1:] {
		if len(rec) <= historyIdx || len(rec) <= targetIdx {
			continue
		}
		h, t := rec[historyIdx], rec[targetIdx]
		if strings.TrimSpace(h) == "" || strings.TrimSpace(t) == "" {
			continue
		}
		pairs = append(pairs, domain.Pair{History: h, Target: t})
	}
	return pairs, nil
}

// LoadHistories reads a .jsonl file with one History per line.
func LoadHistories(path string) ([]History, error) {
	var out []History
	err := eachJSONLine(path, func(line int, data []byte) error {
		var h History
		if err := json.Unmarshal(data, &h); err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
		out = append(out, h)
		return nil
	})
	return out, err
}

// WritePairs writes pairs as JSON lines.
func WritePairs(w io.Writer, pairs []domain.Pair) error {
	enc := json.NewEncoder(w)
	for _, p := range pairs {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

func eachJSONLine(path string, fn func(line int, data []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		data := sc.Bytes()
		if len(strings.TrimSpace(string(data))) == 0 {
			continue
		}
		if err := fn(line, data); err != nil {
			return err
		}
	}
	return sc.Err()
}
