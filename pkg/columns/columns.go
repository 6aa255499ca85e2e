// Package columns resolves uploaded list headers to the canonical record
// fields the matching engine consumes.
package columns

import (
	"fmt"
	"strconv"
	"strings"
)

// Column identifies one canonical field read from an uploaded list.
type Column string

// Canonical columns.
const (
	ColumnCompanyName Column = "company_name"
	ColumnFirstName   Column = "first_name"
	ColumnLastName    Column = "last_name"
	ColumnEmail       Column = "email"
	ColumnTitle       Column = "title"
	ColumnDepartment  Column = "department"
)

// columnOrder fixes the order columns appear in listings and exports.
var columnOrder = []Column{
	ColumnCompanyName, ColumnFirstName, ColumnLastName,
	ColumnEmail, ColumnTitle, ColumnDepartment,
}

// Columns returns all canonical columns in display order.
func Columns() []Column {
	out := make([]Column, len(columnOrder))
	copy(out, columnOrder)
	return out
}

// Valid reports whether the column is a known canonical column.
func (c Column) Valid() bool {
	for _, known := range columnOrder {
		if c == known {
			return true
		}
	}
	return false
}

// aliases lists the header spellings recognized for each column, most
// specific first. Matching is case-insensitive on the cleaned header.
var aliases = map[Column][]string{
	ColumnCompanyName: {
		"company name", "company", "organization", "organisation",
		"employer", "business", "firm", "account name", "account",
	},
	ColumnFirstName: {"first name", "first", "given name", "forename"},
	ColumnLastName:  {"last name", "last", "surname", "family name"},
	ColumnEmail:     {"email address", "email", "e-mail address", "e-mail", "work email"},
	ColumnTitle:     {"job title", "title", "position", "role"},
	ColumnDepartment: {
		"department", "dept", "job function", "function",
	},
}

// Mapping resolves canonical columns to cell indexes in an uploaded header.
type Mapping map[Column]int

// Value returns the row cell for a canonical column, or "" when the column
// is unmapped or the row is too short.
func (m Mapping) Value(c Column, row []string) string {
	idx, ok := m[c]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Has reports whether the mapping covers the column.
func (m Mapping) Has(c Column) bool {
	_, ok := m[c]
	return ok
}

// Mapped returns the columns present in the mapping, in display order.
func (m Mapping) Mapped() []Column {
	out := make([]Column, 0, len(m))
	for _, col := range columnOrder {
		if _, ok := m[col]; ok {
			out = append(out, col)
		}
	}
	return out
}

// Detect guesses a mapping from the header names alone. Exact alias matches
// are claimed first across all columns, then containment matches; each
// header index is claimed at most once.
func Detect(header []string) Mapping {
	cleaned := make([]string, len(header))
	for i, h := range header {
		cleaned[i] = cleanHeader(h)
	}

	mapping := make(Mapping)
	used := make(map[int]bool)

	for _, col := range columnOrder {
		for _, alias := range aliases[col] {
			if idx := findExact(cleaned, used, alias); idx >= 0 {
				mapping[col] = idx
				used[idx] = true
				break
			}
		}
	}
	for _, col := range columnOrder {
		if _, ok := mapping[col]; ok {
			continue
		}
		for _, alias := range aliases[col] {
			if idx := findContains(cleaned, used, alias); idx >= 0 {
				mapping[col] = idx
				used[idx] = true
				break
			}
		}
	}
	return mapping
}

// Overrides maps canonical columns to exact header names, or to 1-based
// "#N" column positions, supplied by the user.
type Overrides map[Column]string

// ParseOverrides parses repeated "column=header" assignments.
func ParseOverrides(assignments []string) (Overrides, error) {
	overrides := make(Overrides, len(assignments))
	for _, assignment := range assignments {
		name, header, found := strings.Cut(assignment, "=")
		if !found {
			return nil, fmt.Errorf("invalid column override %q: want column=header", assignment)
		}
		col := Column(strings.ToLower(strings.TrimSpace(name)))
		if !col.Valid() {
			return nil, fmt.Errorf("unknown column %q (supported: %v)", name, Columns())
		}
		overrides[col] = strings.TrimSpace(header)
	}
	return overrides, nil
}

// Resolve builds the final mapping: automatic detection refined by user
// overrides. The company-name column is required; all others are optional.
func Resolve(header []string, overrides Overrides) (Mapping, error) {
	mapping := Detect(header)

	for col, target := range overrides {
		idx, err := findHeader(header, target)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		for other, existing := range mapping {
			if existing == idx && other != col {
				delete(mapping, other)
			}
		}
		mapping[col] = idx
	}

	if _, ok := mapping[ColumnCompanyName]; !ok {
		return nil, fmt.Errorf("no company name column found in header %v: map one with company_name=<header>", header)
	}
	return mapping, nil
}

// findHeader locates an override target: "#N" selects the 1-based column
// position, anything else must equal a header cell ignoring case.
func findHeader(header []string, target string) (int, error) {
	if strings.HasPrefix(target, "#") {
		n, err := strconv.Atoi(target[1:])
		if err != nil || n < 1 || n > len(header) {
			return 0, fmt.Errorf("no column %q in a %d-column header", target, len(header))
		}
		return n - 1, nil
	}

	want := cleanHeader(target)
	for i, h := range header {
		if cleanHeader(h) == want {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no header named %q", target)
}

// cleanHeader lowers and trims a raw header cell, dropping a UTF-8 BOM.
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

func findExact(cleaned []string, used map[int]bool, alias string) int {
	for i, h := range cleaned {
		if used[i] || h == "" {
			continue
		}
		if h == alias {
			return i
		}
	}
	return -1
}

func findContains(cleaned []string, used map[int]bool, alias string) int {
	for i, h := range cleaned {
		if used[i] || h == "" {
			continue
		}
		if strings.Contains(h, alias) {
			return i
		}
	}
	return -1
}
