// Package storage persists scraped leave data as JSON files consumed by the
// calendar front ends.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Tiliavir/leave-calendar/internal/model"
	"github.com/Tiliavir/leave-calendar/internal/timecalc"
)

const (
	// AggregateFile is the name of the multi-month file in the data directory.
	AggregateFile = "leaves.json"
	historyDir    = "history"
	archivePrefix = "leaves-"
)

// ErrNoData is returned when a requested file has not been written yet.
var ErrNoData = errors.New("no leave data stored yet")

// AggregatePath returns the path of the aggregate file.
func AggregatePath(dataDir string) string {
	return filepath.Join(dataDir, AggregateFile)
}

// MonthPath returns the path of the archive for one month.
func MonthPath(dataDir string, ym timecalc.YearMonth) string {
	return filepath.Join(dataDir, historyDir, archivePrefix+ym.String()+".json")
}

// WriteAggregate atomically replaces the aggregate file.
func WriteAggregate(dataDir string, store model.AggregateStore) error {
	return writeJSON(AggregatePath(dataDir), store)
}

// LoadAggregate reads the aggregate file. It returns ErrNoData if no run
// has completed yet.
func LoadAggregate(dataDir string) (model.AggregateStore, error) {
	var store model.AggregateStore
	if err := readJSON(AggregatePath(dataDir), &store); err != nil {
		return model.AggregateStore{}, err
	}
	return store, nil
}

// WriteMonth atomically replaces the archive of the archived month.
func WriteMonth(dataDir string, a model.MonthArchive) error {
	ym := timecalc.YearMonth{Year: a.Year, Month: a.Month}
	return writeJSON(MonthPath(dataDir, ym), a)
}

// LoadMonth reads the archive of one month.
func LoadMonth(dataDir string, ym timecalc.YearMonth) (model.MonthArchive, error) {
	var a model.MonthArchive
	if err := readJSON(MonthPath(dataDir, ym), &a); err != nil {
		return model.MonthArchive{}, err
	}
	return a, nil
}

// ListMonths returns the archived months in chronological order.
func ListMonths(dataDir string) ([]timecalc.YearMonth, error) {
	dir := filepath.Join(dataDir, historyDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error listing %s: %w", dir, err)
	}

	var months []timecalc.YearMonth
	for _, e := range entries {
		if ym, ok := ParseArchiveName(e.Name()); ok && !e.IsDir() {
			months = append(months, ym)
		}
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})
	return months, nil
}

// ParseArchiveName parses an archive file name "leaves-YYYY-MM.json".
func ParseArchiveName(name string) (timecalc.YearMonth, bool) {
	s, ok := strings.CutPrefix(name, archivePrefix)
	if !ok {
		return timecalc.YearMonth{}, false
	}
	s, ok = strings.CutSuffix(s, ".json")
	if !ok {
		return timecalc.YearMonth{}, false
	}
	ys, ms, ok := strings.Cut(s, "-")
	if !ok || len(ys) != 4 || len(ms) != 2 {
		return timecalc.YearMonth{}, false
	}
	y, err1 := strconv.Atoi(ys)
	m, err2 := strconv.Atoi(ms)
	if err1 != nil || err2 != nil || m < 1 || m > 12 {
		return timecalc.YearMonth{}, false
	}
	return timecalc.YearMonth{Year: y, Month: m}, true
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNoData, path)
	}
	if err != nil {
		return fmt.Errorf("storage error reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Back up corrupt file so the next run starts clean.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return nil
}

// writeJSON writes v pretty-printed to a temp file and renames it over
// path, so readers never observe a partial file.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
