package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jrsherlock/contacts-matcher5000/pkg/contactsmatcher"
)

func sampleReport() *contactsmatcher.Report {
	master := contactsmatcher.Record{ListID: "master", Row: 1, Name: "Acme Widgets, Inc."}
	orphan := contactsmatcher.Record{ListID: "master", Row: 2, Name: "Umbrella Corp"}

	matched := contactsmatcher.MatchResult{
		Source:      contactsmatcher.Record{ListID: "crm", Row: 2, Name: "ACME WIDGETS"},
		Matched:     true,
		Master:      &master,
		MasterIndex: 0,
		Score:       1,
		Breakdown: []contactsmatcher.FieldScore{
			{Field: contactsmatcher.FieldName, Weight: 1, Score: 1},
		},
	}
	missed := contactsmatcher.MatchResult{
		Source:      contactsmatcher.Record{ListID: "crm", Row: 5, Name: "Initech"},
		MasterIndex: -1,
		Score:       0.25,
	}

	return &contactsmatcher.Report{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Threshold:   0.8,
		Metric:      contactsmatcher.MetricTokenSet,
		Fields:      []contactsmatcher.Field{contactsmatcher.FieldName},
		Groups: []contactsmatcher.MatchGroup{
			{Master: master, MasterIndex: 0, Matches: []contactsmatcher.MatchResult{matched}},
		},
		Orphans:        []contactsmatcher.Record{orphan},
		Unmatched:      map[string][]contactsmatcher.MatchResult{"crm": {missed}},
		UnmatchedLists: []string{"crm"},
		TotalSources:   2,
		TotalMatched:   1,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	wantHeader := []string{"source_list", "source_row", "source_company", "matched_company", "matched_row", "score", "score_name"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header = %v, want %v", rows[0], wantHeader)
	}
	wantMatched := []string{"crm", "2", "ACME WIDGETS", "Acme Widgets, Inc.", "1", "1.0000", "1.0000"}
	if !reflect.DeepEqual(rows[1], wantMatched) {
		t.Errorf("matched row = %v, want %v", rows[1], wantMatched)
	}
	wantMissed := []string{"crm", "5", "Initech", "no match", "", "0.2500", ""}
	if !reflect.DeepEqual(rows[2], wantMissed) {
		t.Errorf("unmatched row = %v, want %v", rows[2], wantMissed)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		"match run run-1",
		"threshold: 0.80",
		"metric:    tokenset",
		"fields:    name",
		"matched 1 of 2 source records (50.0%)",
		"Acme Widgets, Inc.  (master row 1)",
		"1.0000  [crm row 2]  ACME WIDGETS",
		"masters with no matches:",
		"[row 2]  Umbrella Corp",
		"unmatched in crm:",
		"[row 5]  Initech  (best 0.2500)",
		"score distribution:",
		"0.2-0.3    1  #",
		"0.9-1.0    1  #",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q\n%s", want, got)
		}
	}
}

func TestWriteTextDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	rep := sampleReport()
	if err := WriteText(&a, rep); err != nil {
		t.Fatal(err)
	}
	if err := WriteText(&b, rep); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("two writes of the same report differ")
	}
}

type failWriter struct{ n int }

func (fw *failWriter) Write(p []byte) (int, error) {
	if fw.n <= 0 {
		return 0, errors.New("disk full")
	}
	fw.n -= len(p)
	return len(p), nil
}

func TestWriteErrors(t *testing.T) {
	if err := WriteText(&failWriter{n: 16}, sampleReport()); err == nil {
		t.Error("WriteText on a failing writer should error")
	}
	if err := WriteCSV(&failWriter{}, sampleReport()); err == nil {
		t.Error("WriteCSV on a failing writer should error")
	}
}
