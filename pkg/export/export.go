// Package export writes consolidated match reports as CSV files and as
// plain-text overlap summaries.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jrsherlock/contacts-matcher5000/pkg/contactsmatcher"
)

// noMatch is written in place of a master company when a record matched
// nothing.
const noMatch = "no match"

// WriteCSV writes one row per source record: matched rows first in master
// order, then unmatched rows by list. Scores carry four decimals; the
// per-field columns follow the report's configured field order.
func WriteCSV(w io.Writer, rep *contactsmatcher.Report) error {
	cw := csv.NewWriter(w)

	header := []string{"source_list", "source_row", "source_company", "matched_company", "matched_row", "score"}
	for _, field := range rep.Fields {
		header = append(header, "score_"+string(field))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, result := range rep.Results() {
		row := []string{
			result.Source.ListID,
			strconv.Itoa(result.Source.Row),
			result.Source.Name,
			noMatch,
			"",
			formatScore(result.Score),
		}
		if result.Matched && result.Master != nil {
			row[3] = result.Master.Name
			row[4] = strconv.Itoa(result.Master.Row)
		}
		row = append(row, fieldScores(rep.Fields, result.Breakdown)...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteText writes the human-readable overlap report: run header, one
// section per matched master, the orphaned masters, the unmatched records
// per list, and the score distribution.
func WriteText(w io.Writer, rep *contactsmatcher.Report) error {
	tw := &textWriter{w: w}

	tw.printf("match run %s\n", rep.RunID)
	tw.printf("generated: %s\n", rep.GeneratedAt.Format(time.RFC3339))
	tw.printf("threshold: %.2f\n", rep.Threshold)
	tw.printf("metric:    %s\n", rep.Metric)
	tw.printf("fields:    %s\n", joinFields(rep.Fields))
	tw.printf("\nmatched %d of %d source records (%.1f%%)\n",
		rep.TotalMatched, rep.TotalSources, rep.MatchRate()*100)

	for _, group := range rep.Groups {
		tw.printf("\n%s  (master row %d)\n", group.Master.Name, group.Master.Row)
		for _, match := range group.Matches {
			tw.printf("  %.4f  [%s row %d]  %s\n",
				match.Score, match.Source.ListID, match.Source.Row, match.Source.Name)
		}
	}

	if len(rep.Orphans) > 0 {
		tw.printf("\nmasters with no matches:\n")
		for _, orphan := range rep.Orphans {
			tw.printf("  [row %d]  %s\n", orphan.Row, orphan.Name)
		}
	}

	for _, id := range rep.UnmatchedLists {
		tw.printf("\nunmatched in %s:\n", id)
		for _, result := range rep.Unmatched[id] {
			tw.printf("  [row %d]  %s  (best %.4f)\n",
				result.Source.Row, result.Source.Name, result.Score)
		}
	}

	tw.printf("\nscore distribution:\n")
	for i, count := range rep.ScoreBuckets() {
		low := float64(i) / 10
		tw.printf("  %.1f-%.1f  %3d  %s\n", low, low+0.1, count, strings.Repeat("#", count))
	}

	if tw.err != nil {
		return fmt.Errorf("writing report: %w", tw.err)
	}
	return nil
}

// textWriter remembers the first write error so the formatting code above
// stays unconditional.
type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

// fieldScores renders the per-field score cells in report field order;
// fields absent from a breakdown render empty.
func fieldScores(fields []contactsmatcher.Field, breakdown []contactsmatcher.FieldScore) []string {
	cells := make([]string, len(fields))
	for i, field := range fields {
		for _, fs := range breakdown {
			if fs.Field == field {
				cells[i] = formatScore(fs.Score)
				break
			}
		}
	}
	return cells
}

func joinFields(fields []contactsmatcher.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 4, 64)
}
