package contactsmatcher

import (
	"errors"
	"math"
	"testing"

	"github.com/jrsherlock/contacts-matcher5000/pkg/testutil"
)

func mustMatcher(t *testing.T, cfg Config, opts ...Option) *Matcher {
	t.Helper()
	m, err := NewMatcher(cfg, opts...)
	if err != nil {
		t.Fatalf("NewMatcher() returned %v", err)
	}
	return m
}

func namedRecords(listID string, names ...string) []Record {
	records := make([]Record, 0, len(names))
	for i, name := range names {
		records = append(records, Record{ListID: listID, Row: i + 1, Name: name})
	}
	return records
}

func TestMatchScenario(t *testing.T) {
	m := mustMatcher(t, Config{Threshold: 0.8, Metric: MetricTokenSet})

	master := namedRecords("master", "Acme Inc.", "Globex Corp")
	source := namedRecords("crm", "ACME, INC", "Globex Corporation", "Initech")

	results, err := m.Match(source, master)
	if err != nil {
		t.Fatalf("Match() returned %v", err)
	}
	if len(results) != len(source) {
		t.Fatalf("Match() returned %d results, want %d", len(results), len(source))
	}

	acme := results[0]
	if !acme.Matched || acme.MasterIndex != 0 {
		t.Errorf("ACME, INC matched master %d (matched %v), want master 0", acme.MasterIndex, acme.Matched)
	}
	if acme.Score != 1.0 {
		t.Errorf("ACME, INC score = %v, want 1.0", acme.Score)
	}

	globex := results[1]
	if !globex.Matched || globex.MasterIndex != 1 {
		t.Errorf("Globex Corporation matched master %d (matched %v), want master 1", globex.MasterIndex, globex.Matched)
	}
	if globex.Score < 0.8 {
		t.Errorf("Globex Corporation score = %v, want >= 0.8", globex.Score)
	}

	initech := results[2]
	if initech.Matched {
		t.Errorf("Initech unexpectedly matched master %d", initech.MasterIndex)
	}
	if initech.Master != nil || initech.MasterIndex != -1 {
		t.Errorf("unmatched result should carry no master, got index %d", initech.MasterIndex)
	}
	if initech.Score <= 0 || initech.Score >= 0.8 {
		t.Errorf("Initech diagnostic score = %v, want in (0, 0.8)", initech.Score)
	}
}

func TestMatchThresholdZeroMatchesEverything(t *testing.T) {
	m := mustMatcher(t, Config{Threshold: 0, Metric: MetricTokenSet})

	master := namedRecords("master", "Acme Inc.", "Globex Corp")
	source := namedRecords("crm", "Initech", "Umbrella", "Wayne Enterprises")

	results, err := m.Match(source, master)
	if err != nil {
		t.Fatalf("Match() returned %v", err)
	}
	for _, result := range results {
		if !result.Matched {
			t.Errorf("%q not matched at threshold 0", result.Source.Name)
		}
		if result.Master == nil || result.MasterIndex < 0 {
			t.Errorf("%q matched without a master reference", result.Source.Name)
		}
	}
}

func TestMatchThresholdOneExactOnly(t *testing.T) {
	m := mustMatcher(t, Config{Threshold: 1, Metric: MetricTokenSet})

	master := namedRecords("master", "Acme Inc.", "Globex Corp")
	source := namedRecords("crm", "ACME, INC", "Globexx Corp", "Stark", "Stark Industries Widgets")

	results, err := m.Match(source, master)
	if err != nil {
		t.Fatalf("Match() returned %v", err)
	}

	if !results[0].Matched || results[0].Score != 1.0 {
		t.Errorf("normalized duplicate not matched at threshold 1: matched %v score %v",
			results[0].Matched, results[0].Score)
	}
	for _, result := range results[1:] {
		if result.Matched {
			t.Errorf("%q matched at threshold 1 with score %v", result.Source.Name, result.Score)
		}
	}
}

func TestMatchSubsetNameIsNotPerfect(t *testing.T) {
	m := mustMatcher(t, Config{Threshold: 1, Metric: MetricTokenSet})

	// "stark" is a strict token subset of "stark industries"; that must not
	// count as an exact duplicate
	master := namedRecords("master", "Stark Industries Widgets")
	source := namedRecords("crm", "Stark")

	results, err := m.Match(source, master)
	if err != nil {
		t.Fatalf("Match() returned %v", err)
	}
	if results[0].Matched {
		t.Errorf("token subset matched at threshold 1 with score %v", results[0].Score)
	}
	if results[0].Score >= 1.0 {
		t.Errorf("token subset score = %v, want < 1.0", results[0].Score)
	}
}

func TestMatchTieBreakPrefersSmallerName(t *testing.T) {
	m := mustMatcher(t, Config{Threshold: 0.8, Metric: MetricTokenSet})

	// both masters normalize to the same token set and score 1.0; the
	// lexicographically smaller normalized name must win over list position
	master := namedRecords("master", "Widgets Acme", "Acme Widgets")
	source := namedRecords("crm", "ACME WIDGETS")

	results, err := m.Match(source, master)
	if err != nil {
		t.Fatalf("Match() returned %v", err)
	}
	if results[0].Score != 1.0 {
		t.Fatalf("score = %v, want 1.0 for reordered tokens", results[0].Score)
	}
	if results[0].MasterIndex != 1 {
		t.Errorf("MasterIndex = %d, want 1 (smaller normalized name)", results[0].MasterIndex)
	}
}

func TestMatchTieBreakPrefersEarlierPosition(t *testing.T) {
	m := mustMatcher(t, Config{Threshold: 0.8, Metric: MetricTokenSet})

	// identical normalized names tie on both score and name; the earlier
	// master-list position must win
	master := namedRecords("master", "Acme Inc.", "ACME LLC")
	source := namedRecords("crm", "Acme")

	results, err := m.Match(source, master)
	if err != nil {
		t.Fatalf("Match() returned %v", err)
	}
	if results[0].MasterIndex != 0 {
		t.Errorf("MasterIndex = %d, want 0 (earlier master position)", results[0].MasterIndex)
	}
}

func TestMatchEmptyLists(t *testing.T) {
	m := mustMatcher(t, DefaultConfig())
	records := namedRecords("crm", "Acme")

	var emptyErr *EmptyListError
	_, err := m.Match(records, nil)
	if !errors.As(err, &emptyErr) || emptyErr.List != "master" {
		t.Errorf("Match with empty master = %v, want EmptyListError for master", err)
	}

	_, err = m.Match(nil, records)
	if !errors.As(err, &emptyErr) || emptyErr.List != "source" {
		t.Errorf("Match with empty source = %v, want EmptyListError for source", err)
	}
	if !errors.Is(err, ErrEmptyList) {
		t.Error("empty list error should wrap ErrEmptyList")
	}
}

func TestMatchRejectsBlankName(t *testing.T) {
	m := mustMatcher(t, DefaultConfig())
	master := namedRecords("master", "Acme Inc.")
	source := []Record{
		{ListID: "crm", Row: 1, Name: "Acme"},
		{ListID: "crm", Row: 2, Name: "   "},
	}

	_, err := m.Match(source, master)
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Match() = %v, want *InputError", err)
	}
	if inputErr.List != "crm" || inputErr.Row != 2 {
		t.Errorf("InputError locates list %q row %d, want list crm row 2", inputErr.List, inputErr.Row)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("input error should wrap ErrInvalidInput")
	}
}

func TestMatchCompositeEmailDomain(t *testing.T) {
	cfg := Config{
		Threshold: 0.85,
		Metric:    MetricTokenSet,
		FieldWeights: map[Field]float64{
			FieldName:        0.7,
			FieldEmailDomain: 0.3,
		},
	}
	m := mustMatcher(t, cfg)

	master := []Record{{ListID: "master", Row: 1, Name: "Acme Inc.", Email: "sales@acme.com"}}
	source := []Record{
		{ListID: "crm", Row: 1, Name: "ACME, INC", Email: "jo@acme.com"},
		{ListID: "crm", Row: 2, Name: "ACME, INC", Email: "jo@other.com"},
		{ListID: "crm", Row: 3, Name: "ACME, INC"},
	}

	results, err := m.Match(source, master)
	if err != nil {
		t.Fatalf("Match() returned %v", err)
	}
	sameDomain, differentDomain, noEmail := results[0], results[1], results[2]

	if sameDomain.Score != 1.0 || !sameDomain.Matched {
		t.Errorf("same domain: score = %v matched %v, want 1.0 matched", sameDomain.Score, sameDomain.Matched)
	}
	if math.Abs(differentDomain.Score-0.7) > 1e-9 {
		t.Errorf("different domain: score = %v, want 0.7", differentDomain.Score)
	}
	if differentDomain.Matched {
		t.Error("different domain should fall below the 0.85 threshold")
	}
	if len(differentDomain.Breakdown) != 2 {
		t.Errorf("different domain: breakdown has %d fields, want 2", len(differentDomain.Breakdown))
	}

	// a missing email excludes the field and renormalizes, it is not a miss
	if noEmail.Score != 1.0 || !noEmail.Matched {
		t.Errorf("missing email: score = %v matched %v, want 1.0 matched", noEmail.Score, noEmail.Matched)
	}
	if len(noEmail.Breakdown) != 1 || noEmail.Breakdown[0].Field != FieldName {
		t.Errorf("missing email: breakdown = %v, want name only", noEmail.Breakdown)
	}

	// weighted domain mismatch scores strictly below the name-only score
	nameOnly := mustMatcher(t, Config{Threshold: 0.85, Metric: MetricTokenSet})
	baseline, err := nameOnly.Match(source[1:2], master)
	if err != nil {
		t.Fatalf("Match() returned %v", err)
	}
	if differentDomain.Score >= baseline[0].Score {
		t.Errorf("composite %v should be below name-only %v", differentDomain.Score, baseline[0].Score)
	}
}

func TestMatchMetricSelection(t *testing.T) {
	master := namedRecords("master", "Acme Widgets")
	source := namedRecords("crm", "Widgets Acme")

	scores := make(map[Metric]float64, 3)
	for _, metric := range Metrics() {
		m := mustMatcher(t, Config{Threshold: 0, Metric: metric})
		results, err := m.Match(source, master)
		if err != nil {
			t.Fatalf("Match() with %s returned %v", metric, err)
		}
		scores[metric] = results[0].Score
	}

	if scores[MetricTokenSet] != 1.0 {
		t.Errorf("tokenset score = %v, want 1.0 for reordered words", scores[MetricTokenSet])
	}
	if s := scores[MetricEditDistance]; s <= 0 || s >= 1 {
		t.Errorf("editdistance score = %v, want in (0, 1) for reordered words", s)
	}
	want := (scores[MetricTokenSet] + scores[MetricEditDistance]) / 2
	if math.Abs(scores[MetricCombined]-want) > 1e-9 {
		t.Errorf("combined score = %v, want midpoint %v", scores[MetricCombined], want)
	}
}

func TestMatchLists(t *testing.T) {
	m := mustMatcher(t, Config{Threshold: 0.8, Metric: MetricTokenSet})

	master := namedRecords("master", "Acme Inc.", "Globex Corp")
	sources := map[string][]Record{
		"crm":    namedRecords("crm", "ACME, INC", "Initech"),
		"events": namedRecords("events", "Globex Corporation"),
	}

	results, err := m.MatchLists(master, sources)
	if err != nil {
		t.Fatalf("MatchLists() returned %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("MatchLists() covered %d lists, want 2", len(results))
	}
	if len(results["crm"]) != 2 || len(results["events"]) != 1 {
		t.Fatalf("result counts = %d and %d, want 2 and 1", len(results["crm"]), len(results["events"]))
	}
	if !results["crm"][0].Matched || results["crm"][1].Matched {
		t.Error("crm list should match ACME, INC and miss Initech")
	}
	if !results["events"][0].Matched {
		t.Error("events list should match Globex Corporation")
	}
}

func TestMatchListsEmptyList(t *testing.T) {
	m := mustMatcher(t, DefaultConfig())
	master := namedRecords("master", "Acme Inc.")

	var emptyErr *EmptyListError
	_, err := m.MatchLists(master, map[string][]Record{"crm": nil})
	if !errors.As(err, &emptyErr) || emptyErr.List != "crm" {
		t.Errorf("MatchLists() = %v, want EmptyListError for crm", err)
	}

	_, err = m.MatchLists(master, nil)
	if !errors.As(err, &emptyErr) || emptyErr.List != "source" {
		t.Errorf("MatchLists() with no lists = %v, want EmptyListError for source", err)
	}
}

func TestCompare(t *testing.T) {
	m := mustMatcher(t, DefaultConfig())

	a := Record{Name: "Acme Inc."}
	b := Record{Name: "ACME, INC"}

	forward, err := m.Compare(a, b)
	if err != nil {
		t.Fatalf("Compare() returned %v", err)
	}
	backward, err := m.Compare(b, a)
	if err != nil {
		t.Fatalf("Compare() returned %v", err)
	}

	if forward.Score != backward.Score {
		t.Errorf("Compare is not symmetric: %v vs %v", forward.Score, backward.Score)
	}
	if forward.Score != 1.0 {
		t.Errorf("Compare score = %v, want 1.0", forward.Score)
	}
	if len(forward.Breakdown) != 1 || forward.Breakdown[0].Field != FieldName {
		t.Errorf("Breakdown = %v, want a single name entry", forward.Breakdown)
	}
}

func TestMatchProgress(t *testing.T) {
	var calls [][2]int
	m := mustMatcher(t, DefaultConfig(), WithProgress(func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}))

	master := namedRecords("master", "Acme Inc.")
	source := namedRecords("crm", "Acme", "Globex", "Initech")

	if _, err := m.Match(source, master); err != nil {
		t.Fatalf("Match() returned %v", err)
	}

	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(calls) != len(want) {
		t.Fatalf("progress called %d times, want %d", len(calls), len(want))
	}
	for i, call := range calls {
		if call != want[i] {
			t.Errorf("progress call %d = %v, want %v", i, call, want[i])
		}
	}
}

func TestMatchWithCustomNormalizer(t *testing.T) {
	custom := NewNormalizer(WithExtraSuffixes("industries"))
	m := mustMatcher(t, Config{Threshold: 1, Metric: MetricTokenSet}, WithNormalizer(custom))

	master := namedRecords("master", "Stark")
	source := namedRecords("crm", "Stark Industries")

	results, err := m.Match(source, master)
	if err != nil {
		t.Fatalf("Match() returned %v", err)
	}
	if !results[0].Matched || results[0].Score != 1.0 {
		t.Errorf("custom suffix should make %q an exact duplicate, got score %v",
			source[0].Name, results[0].Score)
	}
}

func TestMatchFixtures(t *testing.T) {
	loader, err := testutil.NewLoaderFromRepo()
	if err != nil {
		t.Fatalf("creating test data loader: %v", err)
	}
	cases, err := loader.GetTestCases("matching", "best_match")
	if err != nil {
		t.Fatalf("loading test cases: %v", err)
	}

	m := mustMatcher(t, Config{Threshold: 0.8, Metric: MetricTokenSet})

	for _, tc := range cases {
		t.Run(tc.ID, func(t *testing.T) {
			input, ok := tc.InputMap()
			if !ok {
				t.Fatalf("test case %s has no input map", tc.ID)
			}
			sourceName, _ := input["source"].(string)
			rawMaster, _ := input["master"].([]interface{})

			master := make([]Record, 0, len(rawMaster))
			for i, name := range rawMaster {
				master = append(master, Record{ListID: "master", Row: i + 1, Name: name.(string)})
			}
			source := []Record{{ListID: "fixture", Row: 1, Name: sourceName}}

			results, err := m.Match(source, master)
			if err != nil {
				t.Fatalf("Match() returned %v", err)
			}
			result := results[0]

			expected, ok := tc.ExpectedMap()
			if !ok {
				t.Fatalf("test case %s has no expected map", tc.ID)
			}
			wantMatched, _ := expected["matched"].(bool)
			if result.Matched != wantMatched {
				t.Errorf("Matched = %v, want %v (score %v)", result.Matched, wantMatched, result.Score)
			}
			if wantName, ok := expected["master"].(string); ok {
				if result.Master == nil {
					t.Fatalf("no master accepted, want %q", wantName)
				}
				if result.Master.Name != wantName {
					t.Errorf("Master.Name = %q, want %q", result.Master.Name, wantName)
				}
			} else if result.Master != nil {
				t.Errorf("Master = %q, want none", result.Master.Name)
			}

			if tc.ExpectedMin != nil && result.Score < *tc.ExpectedMin {
				t.Errorf("Score = %v, want >= %v", result.Score, *tc.ExpectedMin)
			}
			if tc.ExpectedMax != nil && result.Score > *tc.ExpectedMax {
				t.Errorf("Score = %v, want <= %v", result.Score, *tc.ExpectedMax)
			}
		})
	}
}
