package contactsmatcher

import "time"

// Report is the consolidated outcome of matching one or more source lists
// against a master list.
type Report struct {
	// RunID uniquely identifies this matching run
	RunID string `json:"run_id"`
	// GeneratedAt is when the report was assembled, in UTC
	GeneratedAt time.Time `json:"generated_at"`
	// Threshold is the acceptance threshold the run used
	Threshold float64 `json:"threshold"`
	// Metric is the company-name metric the run used
	Metric Metric `json:"metric"`
	// Fields lists the weighted fields in breakdown order
	Fields []Field `json:"fields"`
	// Groups holds every master record with at least one accepted match,
	// in master-list order
	Groups []MatchGroup `json:"groups"`
	// Orphans are master records no source record matched
	Orphans []Record `json:"orphans,omitempty"`
	// Unmatched maps source list IDs to their unmatched results
	Unmatched map[string][]MatchResult `json:"unmatched,omitempty"`
	// UnmatchedLists is Unmatched's key set in sorted order
	UnmatchedLists []string `json:"unmatched_lists,omitempty"`
	// TotalSources counts every source record across all lists
	TotalSources int `json:"total_sources"`
	// TotalMatched counts the source records with an accepted match
	TotalMatched int `json:"total_matched"`
}

// TotalUnmatched counts the source records without an accepted match.
func (r *Report) TotalUnmatched() int {
	return r.TotalSources - r.TotalMatched
}

// MatchRate is the fraction of source records with an accepted match.
func (r *Report) MatchRate() float64 {
	if r.TotalSources == 0 {
		return 0.0
	}
	return float64(r.TotalMatched) / float64(r.TotalSources)
}

// Results flattens the report back into per-record results: matched records
// first, grouped in master order, then unmatched records by list. The
// order is deterministic so exports are reproducible.
func (r *Report) Results() []MatchResult {
	out := make([]MatchResult, 0, r.TotalSources)
	for _, group := range r.Groups {
		out = append(out, group.Matches...)
	}
	for _, id := range r.UnmatchedLists {
		out = append(out, r.Unmatched[id]...)
	}
	return out
}

// ScoreBuckets tallies best scores into ten even buckets. A score of
// exactly 1.0 lands in the top bucket.
func (r *Report) ScoreBuckets() [10]int {
	var buckets [10]int
	for _, result := range r.Results() {
		i := int(result.Score * 10)
		if i > 9 {
			i = 9
		}
		if i < 0 {
			i = 0
		}
		buckets[i]++
	}
	return buckets
}
