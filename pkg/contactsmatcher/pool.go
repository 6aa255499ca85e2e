package contactsmatcher

import (
	"errors"

	"github.com/jrsherlock/contacts-matcher5000/pkg/internal/normalization"
)

// candidate is one record with its normalized comparison fields, computed
// once and reused for every pairing it appears in.
type candidate struct {
	record Record
	index  int

	name       string
	personName string
	domain     string
	title      string
	department string
}

// newCandidate normalizes the fields the configured weights need. Secondary
// fields that are empty on the record stay empty here and are treated as
// absent when scoring.
func (m *Matcher) newCandidate(rec Record, index int) (candidate, error) {
	name, err := m.normalizer.Name(rec.Name)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			return candidate{}, &InputError{
				List:   rec.ListID,
				Row:    rec.Row,
				Field:  inputErr.Field,
				Reason: inputErr.Reason,
			}
		}
		return candidate{}, err
	}

	c := candidate{record: rec, index: index, name: name}
	for _, fw := range m.weights {
		switch fw.field {
		case FieldPersonName:
			c.personName = normalization.FullName(rec.FirstName, rec.LastName)
		case FieldEmailDomain:
			c.domain = normalization.EmailDomain(rec.Email)
		case FieldTitle:
			c.title = normalization.JobTitle(rec.Title)
		case FieldDepartment:
			c.department = normalization.JobTitle(rec.Department)
		}
	}
	return c, nil
}

// buildPool normalizes a master list into a candidate pool. MatchLists
// shares one pool across every source list it processes.
func (m *Matcher) buildPool(master []Record) ([]candidate, error) {
	pool := make([]candidate, 0, len(master))
	for i, rec := range master {
		c, err := m.newCandidate(rec, i)
		if err != nil {
			return nil, err
		}
		pool = append(pool, c)
	}
	return pool, nil
}
