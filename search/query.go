// Package search implements the query-construction and multi-status
// aggregation layer of the gateway: it turns structured tool inputs into
// FreeScout search expressions, fans requests out across conversation
// statuses, and merges the results into a single deduplicated list.
package search

import (
	"fmt"
	"strings"
)

// SearchIn selects which text fields a keyword search matches against.
const (
	SearchInBody    = "body"
	SearchInSubject = "subject"
	SearchInBoth    = "both"
)

// escapeTerm makes a user-supplied term safe to embed inside a quoted
// expression literal. Backslashes are doubled first so escaped quotes are
// not re-escaped.
func escapeTerm(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, `"`, `\"`)
	return term
}

func fieldClause(field, term string) string {
	return fmt.Sprintf(`%s:"%s"`, field, escapeTerm(term))
}

// termClause builds the sub-expression for a single term, scoped to the
// selected fields. With searchIn "both" the term matches either field.
func termClause(term, searchIn string) string {
	switch searchIn {
	case SearchInBody:
		return fieldClause("body", term)
	case SearchInSubject:
		return fieldClause("subject", term)
	default:
		return "(" + fieldClause("body", term) + " OR " + fieldClause("subject", term) + ")"
	}
}

// BuildKeywordQuery produces the upstream expression for a keyword
// search: one clause per term, OR-ed together. Blank terms are skipped.
// Returns the empty string when nothing usable remains, meaning "no
// content filter".
func BuildKeywordQuery(terms []string, searchIn string) string {
	clauses := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		clauses = append(clauses, termClause(term, searchIn))
	}
	if len(clauses) == 0 {
		return ""
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return "(" + strings.Join(clauses, " OR ") + ")"
}

// Criteria are the structured inputs of an advanced search. Distinct
// groups are AND-ed together; members within a group are OR-ed.
type Criteria struct {
	ContentTerms  []string
	SubjectTerms  []string
	CustomerEmail string
	EmailDomain   string
	Tags          []string
}

// BuildAdvancedQuery combines the criteria groups into one expression.
// Empty groups contribute no clause. Returns the empty string when no
// criteria were supplied.
func BuildAdvancedQuery(c Criteria) string {
	var groups []string

	if group := orGroup("body", c.ContentTerms); group != "" {
		groups = append(groups, group)
	}
	if group := orGroup("subject", c.SubjectTerms); group != "" {
		groups = append(groups, group)
	}
	if email := strings.TrimSpace(c.CustomerEmail); email != "" {
		groups = append(groups, fieldClause("email", email))
	}
	if domain := strings.TrimSpace(c.EmailDomain); domain != "" {
		domain = strings.TrimPrefix(domain, "@")
		groups = append(groups, fieldClause("email", "@"+domain))
	}
	if group := orGroup("tag", trimTags(c.Tags)); group != "" {
		groups = append(groups, group)
	}

	if len(groups) == 0 {
		return ""
	}
	return strings.Join(groups, " AND ")
}

func orGroup(field string, terms []string) string {
	clauses := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		clauses = append(clauses, fieldClause(field, term))
	}
	if len(clauses) == 0 {
		return ""
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return "(" + strings.Join(clauses, " OR ") + ")"
}

func trimTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "@")
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
