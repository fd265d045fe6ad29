package search

import (
	"strings"
	"testing"
)

func TestBuildKeywordQuery(t *testing.T) {
	testCases := []struct {
		name     string
		terms    []string
		searchIn string
		expected string
	}{
		{
			name:     "single term both fields",
			terms:    []string{"billing"},
			searchIn: SearchInBoth,
			expected: `(body:"billing" OR subject:"billing")`,
		},
		{
			name:     "single term body only",
			terms:    []string{"billing"},
			searchIn: SearchInBody,
			expected: `body:"billing"`,
		},
		{
			name:     "single term subject only",
			terms:    []string{"invoice"},
			searchIn: SearchInSubject,
			expected: `subject:"invoice"`,
		},
		{
			name:     "multiple terms OR-ed",
			terms:    []string{"refund", "chargeback"},
			searchIn: SearchInBody,
			expected: `(body:"refund" OR body:"chargeback")`,
		},
		{
			name:     "blank terms skipped",
			terms:    []string{"  ", "refund", ""},
			searchIn: SearchInBody,
			expected: `body:"refund"`,
		},
		{
			name:     "no usable terms",
			terms:    []string{"", "   "},
			searchIn: SearchInBoth,
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildKeywordQuery(tc.terms, tc.searchIn)
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestBuildKeywordQuery_Escaping(t *testing.T) {
	got := BuildKeywordQuery([]string{`say "hi" \now`}, SearchInBody)
	expected := `body:"say \"hi\" \\now"`
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	// Round-trip check: inside the quoted literal, every quote and
	// backslash must be escaped, so the expression parses as exactly
	// one literal term.
	inner := strings.TrimSuffix(strings.TrimPrefix(got, `body:"`), `"`)
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '\\':
			if i+1 >= len(inner) || (inner[i+1] != '\\' && inner[i+1] != '"') {
				t.Errorf("Dangling backslash at %d in %q", i, inner)
			}
			i++
		case '"':
			t.Errorf("Unescaped quote at %d in %q", i, inner)
		}
	}
}

func TestBuildAdvancedQuery(t *testing.T) {
	testCases := []struct {
		name     string
		criteria Criteria
		expected string
	}{
		{
			name:     "empty criteria",
			criteria: Criteria{},
			expected: "",
		},
		{
			name: "content terms only",
			criteria: Criteria{
				ContentTerms: []string{"refund", "cancel"},
			},
			expected: `(body:"refund" OR body:"cancel")`,
		},
		{
			name: "all groups AND-ed",
			criteria: Criteria{
				ContentTerms:  []string{"refund"},
				SubjectTerms:  []string{"urgent"},
				CustomerEmail: "jo@acme.com",
				EmailDomain:   "@acme.com",
				Tags:          []string{"vip", "billing"},
			},
			expected: `body:"refund" AND subject:"urgent" AND email:"jo@acme.com" AND email:"@acme.com" AND (tag:"vip" OR tag:"billing")`,
		},
		{
			name: "domain without leading at",
			criteria: Criteria{
				EmailDomain: "acme.com",
			},
			expected: `email:"@acme.com"`,
		},
		{
			name: "empty groups omitted",
			criteria: Criteria{
				SubjectTerms: []string{"urgent"},
				Tags:         []string{""},
			},
			expected: `subject:"urgent"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildAdvancedQuery(tc.criteria)
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
