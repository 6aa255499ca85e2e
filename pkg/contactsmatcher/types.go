// Package contactsmatcher reconciles contact lists by fuzzy company matching.
// It normalizes company names, scores every source record against a master
// list with configurable similarity metrics and per-field weights, and
// aggregates the accepted matches into a consolidated report.
package contactsmatcher

// Metric selects the company-name similarity metric.
type Metric string

// Supported company-name metrics.
const (
	// MetricTokenSet is order-insensitive: reordered or partially repeated
	// words still score high
	MetricTokenSet Metric = "tokenset"
	// MetricEditDistance is order-sensitive: best for typos and small
	// spelling drift
	MetricEditDistance Metric = "editdistance"
	// MetricCombined is the even blend of the other two
	MetricCombined Metric = "combined"
)

// Metrics returns all supported metrics.
func Metrics() []Metric {
	return []Metric{MetricTokenSet, MetricEditDistance, MetricCombined}
}

// Valid reports whether the metric is one of the supported values.
func (m Metric) Valid() bool {
	switch m {
	case MetricTokenSet, MetricEditDistance, MetricCombined:
		return true
	}
	return false
}

// Field identifies one scored dimension of a record pair.
type Field string

// Scorable record fields.
const (
	// FieldName is the company name, scored with the configured Metric
	FieldName Field = "name"
	// FieldPersonName is the contact's full name
	FieldPersonName Field = "person_name"
	// FieldEmailDomain is the domain part of the contact's email address
	FieldEmailDomain Field = "email_domain"
	// FieldTitle is the contact's job title
	FieldTitle Field = "title"
	// FieldDepartment is the contact's department
	FieldDepartment Field = "department"
)

// fieldOrder fixes the order fields appear in breakdowns and exports.
var fieldOrder = []Field{FieldName, FieldPersonName, FieldEmailDomain, FieldTitle, FieldDepartment}

// Fields returns all scorable fields in their canonical order.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// Valid reports whether the field is one of the scorable values.
func (f Field) Valid() bool {
	for _, known := range fieldOrder {
		if f == known {
			return true
		}
	}
	return false
}

// Record is one row from an uploaded list. Records are created at ingestion
// and consumed read-only; the company name is the only required field.
type Record struct {
	// ListID identifies the list the record came from
	ListID string `json:"list_id"`
	// Row is the record's 1-based row index in its original list
	Row int `json:"row"`
	// Name is the raw company name
	Name string `json:"name"`
	// FirstName is the contact's first name
	FirstName string `json:"first_name,omitempty"`
	// LastName is the contact's last name
	LastName string `json:"last_name,omitempty"`
	// Email is the contact's email address
	Email string `json:"email,omitempty"`
	// Title is the contact's job title
	Title string `json:"title,omitempty"`
	// Department is the contact's department
	Department string `json:"department,omitempty"`
}

// FieldScore is one field's contribution to a composite score.
type FieldScore struct {
	// Field is the scored dimension
	Field Field `json:"field"`
	// Weight is the configured weight of this field
	Weight float64 `json:"weight"`
	// Score is the field similarity in [0, 1]
	Score float64 `json:"score"`
}

// MatchCandidate is one scored source/master pairing.
type MatchCandidate struct {
	// Source is the source-list record
	Source Record `json:"source"`
	// Master is the master-list record
	Master Record `json:"master"`
	// MasterIndex is the master record's position in the master list
	MasterIndex int `json:"master_index"`
	// Score is the composite similarity in [0, 1]
	Score float64 `json:"score"`
	// Breakdown holds the per-field scores behind Score
	Breakdown []FieldScore `json:"breakdown,omitempty"`
}

// MatchResult is the finalized outcome for one source record: the best
// candidate when it clears the threshold, otherwise a no-match that keeps
// the best score found for diagnostics.
type MatchResult struct {
	// Source is the source-list record
	Source Record `json:"source"`
	// Matched reports whether the best candidate cleared the threshold
	Matched bool `json:"matched"`
	// Master is the accepted master record; nil when unmatched
	Master *Record `json:"master,omitempty"`
	// MasterIndex is the accepted master's list position; -1 when unmatched
	MasterIndex int `json:"master_index"`
	// Score is the best composite score found, kept even for no-matches
	Score float64 `json:"score"`
	// Breakdown holds the per-field scores of the best candidate
	Breakdown []FieldScore `json:"breakdown,omitempty"`
}

// MatchGroup collects every source record matched to one master record.
type MatchGroup struct {
	// Master is the master record the group belongs to
	Master Record `json:"master"`
	// MasterIndex is the master record's position in the master list
	MasterIndex int `json:"master_index"`
	// Matches is ordered by source list ID, then row
	Matches []MatchResult `json:"matches"`
}
