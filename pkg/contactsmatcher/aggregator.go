package contactsmatcher

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Aggregate consolidates per-list match results against one master list
// into a Report. Groups follow master-list order; matches within a group
// are ordered by list ID then row; unmatched results are kept per list in
// row order. Every source result lands in exactly one of groups or
// unmatched.
func (m *Matcher) Aggregate(master []Record, perList map[string][]MatchResult) (*Report, error) {
	if len(master) == 0 {
		return nil, &EmptyListError{List: "master"}
	}
	if len(perList) == 0 {
		return nil, &EmptyListError{List: "source"}
	}

	grouped := make([][]MatchResult, len(master))
	unmatched := make(map[string][]MatchResult)
	total := 0
	matched := 0

	ids := make([]string, 0, len(perList))
	for id := range perList {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, result := range perList[id] {
			total++
			if !result.Matched {
				unmatched[id] = append(unmatched[id], result)
				continue
			}
			if result.MasterIndex < 0 || result.MasterIndex >= len(master) {
				return nil, &InputError{
					List:   id,
					Row:    result.Source.Row,
					Field:  "master_index",
					Reason: fmt.Sprintf("index %d outside master list of %d records", result.MasterIndex, len(master)),
				}
			}
			matched++
			grouped[result.MasterIndex] = append(grouped[result.MasterIndex], result)
		}
	}

	report := &Report{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		Threshold:    m.config.Threshold,
		Metric:       m.config.Metric,
		Fields:       m.configuredFields(),
		TotalSources: total,
		TotalMatched: matched,
	}

	for index, record := range master {
		matches := grouped[index]
		if len(matches) == 0 {
			report.Orphans = append(report.Orphans, record)
			continue
		}
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].Source.ListID != matches[j].Source.ListID {
				return matches[i].Source.ListID < matches[j].Source.ListID
			}
			return matches[i].Source.Row < matches[j].Source.Row
		})
		report.Groups = append(report.Groups, MatchGroup{
			Master:      record,
			MasterIndex: index,
			Matches:     matches,
		})
	}

	if len(unmatched) > 0 {
		report.Unmatched = unmatched
		for id, results := range unmatched {
			report.UnmatchedLists = append(report.UnmatchedLists, id)
			sort.SliceStable(results, func(i, j int) bool {
				return results[i].Source.Row < results[j].Source.Row
			})
		}
		sort.Strings(report.UnmatchedLists)
	}

	return report, nil
}

// configuredFields lists the weighted fields in canonical order.
func (m *Matcher) configuredFields() []Field {
	fields := make([]Field, 0, len(m.weights))
	for _, fw := range m.weights {
		fields = append(fields, fw.field)
	}
	return fields
}
