// Package results holds the most recent analysis in memory and exports it to
// CSV. The slot is last-write-wins: a new analysis replaces the old one.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lifematch-ai/matchd/internal/fault"
	"github.com/lifematch-ai/matchd/internal/record"
)

// exportSuffix is appended to the caller-supplied output path (extension
// trimmed first), so "analysis_results.csv" lands at
// "analysis_results_analysis.csv".
const exportSuffix = "_analysis.csv"

type Store struct {
	mu     sync.RWMutex
	latest *record.FlatRecord
}

func NewStore() *Store {
	return &Store{}
}

// Set replaces the latest record.
func (s *Store) Set(rec record.FlatRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &rec
}

// Latest returns a copy of the most recent record, or a not_available error if
// no analysis has completed in this process's lifetime.
func (s *Store) Latest() (record.FlatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return record.FlatRecord{}, fault.New(fault.KindNotAvailable, "No analysis available")
	}
	return *s.latest, nil
}

// ExportPath derives the on-disk CSV path from a caller-supplied output path.
func ExportPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + exportSuffix
}

// ExportCSV writes the record as a single-row CSV to the derived path,
// creating parent directories as needed.
func ExportCSV(rec record.FlatRecord, outputPath string) (string, error) {
	path := ExportPath(outputPath)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fault.Wrap(fault.KindIO, fmt.Sprintf("create output dir %s", dir), err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fault.Wrap(fault.KindIO, fmt.Sprintf("create %s", path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll([][]string{record.Columns(), rec.Row()}); err != nil {
		return "", fault.Wrap(fault.KindIO, fmt.Sprintf("write %s", path), err)
	}

	return path, nil
}
