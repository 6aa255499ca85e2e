package contactsmatcher

import (
	"sort"

	"github.com/jrsherlock/contacts-matcher5000/pkg/internal/scoring"
)

// Matcher scores source records against a master list. It holds no mutable
// state across calls: every Match invocation is pure given its inputs, so
// one Matcher may serve concurrent callers.
type Matcher struct {
	config     Config
	weights    []fieldWeight
	normalizer *Normalizer
	progress   func(done, total int)
}

// Option adjusts Matcher construction.
type Option func(*Matcher)

// WithNormalizer substitutes a custom company-name normalizer.
func WithNormalizer(n *Normalizer) Option {
	return func(m *Matcher) {
		if n != nil {
			m.normalizer = n
		}
	}
}

// WithProgress registers a callback invoked after each source record is
// scored. done counts records finished in the current list; total is that
// list's size.
func WithProgress(fn func(done, total int)) Option {
	return func(m *Matcher) {
		m.progress = fn
	}
}

// NewMatcher validates the configuration and builds a Matcher from it.
func NewMatcher(cfg Config, opts ...Option) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Matcher{
		config:     cfg.clone(),
		normalizer: NewNormalizer(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.weights = m.config.orderedWeights()
	return m, nil
}

// Config returns a copy of the matcher's effective configuration.
func (m *Matcher) Config() Config {
	return m.config.clone()
}

// Match finds the best master match for every source record. Both lists
// must be non-empty. The master list is normalized once, then every source
// record is scored against every master record. The call fails on the first
// invalid record and never returns partial results.
func (m *Matcher) Match(source, master []Record) ([]MatchResult, error) {
	if len(master) == 0 {
		return nil, &EmptyListError{List: "master"}
	}
	if len(source) == 0 {
		return nil, &EmptyListError{List: "source"}
	}

	pool, err := m.buildPool(master)
	if err != nil {
		return nil, err
	}
	return m.matchAgainst(source, pool)
}

// MatchLists matches several source lists against one master list, sharing
// a single normalized candidate pool. Lists are processed in sorted ID
// order so repeated runs over the same inputs produce identical output.
func (m *Matcher) MatchLists(master []Record, sources map[string][]Record) (map[string][]MatchResult, error) {
	if len(master) == 0 {
		return nil, &EmptyListError{List: "master"}
	}
	if len(sources) == 0 {
		return nil, &EmptyListError{List: "source"}
	}

	pool, err := m.buildPool(master)
	if err != nil {
		return nil, err
	}

	results := make(map[string][]MatchResult, len(sources))
	for _, id := range sortedListIDs(sources) {
		records := sources[id]
		if len(records) == 0 {
			return nil, &EmptyListError{List: id}
		}
		listResults, err := m.matchAgainst(records, pool)
		if err != nil {
			return nil, err
		}
		results[id] = listResults
	}
	return results, nil
}

// Compare scores a single source/master pairing and reports the per-field
// breakdown behind the composite.
func (m *Matcher) Compare(source, master Record) (MatchCandidate, error) {
	src, err := m.newCandidate(source, 0)
	if err != nil {
		return MatchCandidate{}, err
	}
	cand, err := m.newCandidate(master, 0)
	if err != nil {
		return MatchCandidate{}, err
	}

	return MatchCandidate{
		Source:    source,
		Master:    master,
		Score:     m.composite(&src, &cand),
		Breakdown: m.breakdown(&src, &cand),
	}, nil
}

func (m *Matcher) matchAgainst(source []Record, pool []candidate) ([]MatchResult, error) {
	results := make([]MatchResult, 0, len(source))
	for i, rec := range source {
		src, err := m.newCandidate(rec, i)
		if err != nil {
			return nil, err
		}

		best := m.bestCandidate(&src, pool)
		result := MatchResult{
			Source:      rec,
			MasterIndex: -1,
			Score:       best.Score,
			Breakdown:   best.Breakdown,
		}
		if best.Score >= m.config.Threshold {
			master := best.Master
			result.Matched = true
			result.Master = &master
			result.MasterIndex = best.MasterIndex
		}
		results = append(results, result)

		if m.progress != nil {
			m.progress(i+1, len(source))
		}
	}
	return results, nil
}

// bestCandidate scans the pool for the highest composite score. Ties prefer
// the lexicographically smaller normalized master name, then the earlier
// master-list position. A perfect score does not short-circuit the scan:
// a later candidate with the same score can still win on name order.
func (m *Matcher) bestCandidate(src *candidate, pool []candidate) MatchCandidate {
	bestIndex := 0
	bestScore := -1.0
	bestName := ""

	for i := range pool {
		cand := &pool[i]
		score := m.composite(src, cand)
		switch {
		case score > bestScore:
		case score == bestScore && cand.name < bestName:
		default:
			continue
		}
		bestIndex, bestScore, bestName = i, score, cand.name
	}

	winner := &pool[bestIndex]
	return MatchCandidate{
		Source:      src.record,
		Master:      winner.record,
		MasterIndex: winner.index,
		Score:       bestScore,
		Breakdown:   m.breakdown(src, winner),
	}
}

// composite combines the weighted field scores for one pairing. Fields
// absent on either side are excluded and the remaining weights renormalized,
// so a missing email never drags a strong name match below threshold.
func (m *Matcher) composite(src, cand *candidate) float64 {
	var total, weightSum float64
	for _, fw := range m.weights {
		score, present := m.fieldScore(fw.field, src, cand)
		if !present {
			continue
		}
		total += fw.weight * score
		weightSum += fw.weight
	}
	if weightSum == 0 {
		return 0.0
	}
	return total / weightSum
}

// breakdown reports the per-field scores behind a pairing's composite,
// omitting absent fields.
func (m *Matcher) breakdown(src, cand *candidate) []FieldScore {
	out := make([]FieldScore, 0, len(m.weights))
	for _, fw := range m.weights {
		score, present := m.fieldScore(fw.field, src, cand)
		if !present {
			continue
		}
		out = append(out, FieldScore{Field: fw.field, Weight: fw.weight, Score: score})
	}
	return out
}

// fieldScore computes one field's similarity for a pairing. The second
// return reports whether the field was present on both sides; the company
// name is always present because pool construction requires it.
func (m *Matcher) fieldScore(field Field, src, cand *candidate) (float64, bool) {
	switch field {
	case FieldName:
		return m.nameScore(src.name, cand.name), true
	case FieldPersonName:
		if src.personName == "" || cand.personName == "" {
			return 0.0, false
		}
		return scoring.PersonName(src.personName, cand.personName), true
	case FieldEmailDomain:
		if src.domain == "" || cand.domain == "" {
			return 0.0, false
		}
		return scoring.Exact(src.domain, cand.domain), true
	case FieldTitle:
		if src.title == "" || cand.title == "" {
			return 0.0, false
		}
		return scoring.TokenSort(src.title, cand.title), true
	case FieldDepartment:
		if src.department == "" || cand.department == "" {
			return 0.0, false
		}
		return scoring.TokenSort(src.department, cand.department), true
	}
	return 0.0, false
}

// nameScore applies the configured metric to two normalized company names.
func (m *Matcher) nameScore(a, b string) float64 {
	switch m.config.Metric {
	case MetricEditDistance:
		return scoring.EditDistance(a, b)
	case MetricCombined:
		return scoring.Combined(a, b)
	default:
		return scoring.TokenSet(a, b)
	}
}

// Reconcile is the one-call flow: build a Matcher, match every source list
// against the master list, and aggregate the results into a report.
func Reconcile(cfg Config, master []Record, sources map[string][]Record, opts ...Option) (*Report, error) {
	m, err := NewMatcher(cfg, opts...)
	if err != nil {
		return nil, err
	}
	perList, err := m.MatchLists(master, sources)
	if err != nil {
		return nil, err
	}
	return m.Aggregate(master, perList)
}

func sortedListIDs(lists map[string][]Record) []string {
	ids := make([]string, 0, len(lists))
	for id := range lists {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
