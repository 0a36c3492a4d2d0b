package analysis

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Daily report: merges the day's archived rankings into one aggregate list
// and writes it as CSV. Wired to a cron schedule from main.

// MergeRankings combines per-analysis rankings into one aggregate count list.
// Same ordering contract as Rank: count descending, ties in first-seen order
// across the records scan.
func MergeRankings(records []AnalysisRecord) []WordCount {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		for _, wc := range rec.TopWords {
			if _, seen := counts[wc.Word]; !seen {
				order = append(order, wc.Word)
			}
			counts[wc.Word] += wc.Count
		}
	}

	out := make([]WordCount, 0, len(order))
	for _, w := range order {
		out = append(out, WordCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// WriteReportCSV writes word,count rows to path. The header matches the
// dashboard's export format so both land in the same spreadsheets.
func WriteReportCSV(path string, merged []WordCount) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"word", "count"}); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}
	for _, wc := range merged {
		if err := w.Write([]string{wc.Word, strconv.Itoa(wc.Count)}); err != nil {
			return fmt.Errorf("report: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// RunDailyReport aggregates the last 24h of archived analyses into a dated
// CSV under dir. No-op (with a log line) when the history archive is off.
func RunDailyReport(ctx context.Context, dir string) error {
	db := GetHistoryDB()
	if db == nil {
		slog.Info("report: history archive disabled, skipping")
		return nil
	}

	cutoff := time.Now().Add(-24 * time.Hour)
	records, err := db.Since(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("report: load records: %w", err)
	}
	if len(records) == 0 {
		slog.Info("report: no analyses in window, skipping")
		return nil
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("report: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, "words-"+time.Now().Format("2006-01-02")+".csv")
	merged := MergeRankings(records)
	if err := WriteReportCSV(path, merged); err != nil {
		return err
	}

	slog.Info("report: written",
		slog.String("path", path),
		slog.Int("analyses", len(records)),
		slog.Int("words", len(merged)))
	return nil
}
