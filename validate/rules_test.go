package validate

import (
	"strings"
	"testing"
)

func TestCheck_InboxMentionWithoutID(t *testing.T) {
	ctx := NewCallContext()
	ctx.SetUserRequest("show me open tickets in the billing inbox")

	result := Check(ProposedCall{Tool: ToolKeywordSearch, SearchTerms: []string{"refund"}}, ctx)

	if result.Valid {
		t.Fatal("Expected validation to fail")
	}
	if len(result.RequiredPrerequisites) != 1 || result.RequiredPrerequisites[0] != ToolSearchInboxes {
		t.Errorf("Expected prerequisite %s, got %v", ToolSearchInboxes, result.RequiredPrerequisites)
	}
	foundImperative := false
	for _, suggestion := range result.Suggestions {
		if strings.Contains(suggestion, ToolSearchInboxes) && strings.Contains(suggestion, "first") {
			foundImperative = true
		}
	}
	if !foundImperative {
		t.Errorf("Expected an imperative 'call %s first' suggestion, got %v", ToolSearchInboxes, result.Suggestions)
	}
}

func TestCheck_InboxMentionSatisfiedByPriorLookup(t *testing.T) {
	ctx := NewCallContext()
	ctx.SetUserRequest("search the support mailbox for refunds")
	ctx.RecordCall(ToolSearchInboxes)

	result := Check(ProposedCall{Tool: ToolKeywordSearch, SearchTerms: []string{"refund"}}, ctx)

	if !result.Valid {
		t.Errorf("Expected validation to pass after a prior inbox lookup, got errors %v", result.Errors)
	}
}

func TestCheck_InboxMentionWithExplicitID(t *testing.T) {
	ctx := NewCallContext()
	ctx.SetUserRequest("search the support mailbox for refunds")

	result := Check(ProposedCall{Tool: ToolKeywordSearch, InboxID: "4", SearchTerms: []string{"refund"}}, ctx)

	if !result.Valid {
		t.Errorf("Expected an explicit inboxId to satisfy the rule, got errors %v", result.Errors)
	}
}

func TestCheck_NoInboxCueNoRule(t *testing.T) {
	ctx := NewCallContext()
	ctx.SetUserRequest("find conversations about refunds")

	result := Check(ProposedCall{Tool: ToolKeywordSearch, SearchTerms: []string{"refund"}}, ctx)

	if !result.Valid {
		t.Errorf("Expected no inbox rule without an inbox cue, got errors %v", result.Errors)
	}
}

func TestCheck_InboxIDFormat(t *testing.T) {
	testCases := []struct {
		name    string
		inboxID string
		valid   bool
	}{
		{name: "numeric", inboxID: "42", valid: true},
		{name: "alphabetic", inboxID: "billing", valid: false},
		{name: "mixed", inboxID: "12a", valid: false},
		{name: "negative", inboxID: "-3", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Check(ProposedCall{Tool: ToolSearchConvos, InboxID: tc.inboxID, HasStatus: true}, NewCallContext())
			if result.Valid != tc.valid {
				t.Errorf("inboxID %q: expected valid=%v, got errors %v", tc.inboxID, tc.valid, result.Errors)
			}
		})
	}
}

func TestCheck_ConversationIDFormat(t *testing.T) {
	testCases := []struct {
		name           string
		conversationID string
		valid          bool
	}{
		{name: "numeric", conversationID: "1234", valid: true},
		{name: "too long", conversationID: "12345678901", valid: false},
		{name: "alphabetic", conversationID: "abc", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Check(ProposedCall{Tool: ToolConvoSummary, ConversationID: tc.conversationID}, NewCallContext())
			if result.Valid != tc.valid {
				t.Errorf("conversationID %q: expected valid=%v, got errors %v", tc.conversationID, tc.valid, result.Errors)
			}
		})
	}
}

func TestCheck_KeywordSearchRequiresTerms(t *testing.T) {
	for _, terms := range [][]string{nil, {}, {""}, {"  "}} {
		result := Check(ProposedCall{Tool: ToolKeywordSearch, SearchTerms: terms}, NewCallContext())
		if result.Valid {
			t.Errorf("Expected terms %v to be rejected", terms)
		}
	}

	result := Check(ProposedCall{Tool: ToolKeywordSearch, SearchTerms: []string{"billing"}}, NewCallContext())
	if !result.Valid {
		t.Errorf("Expected a non-empty term to pass, got errors %v", result.Errors)
	}
}

func TestCheck_MetadataSearchWithoutStatusSuggestsKeywordTool(t *testing.T) {
	result := Check(ProposedCall{Tool: ToolSearchConvos}, NewCallContext())

	if !result.Valid {
		t.Fatalf("The suggestion must never block the call, got errors %v", result.Errors)
	}
	found := false
	for _, suggestion := range result.Suggestions {
		if strings.Contains(suggestion, ToolKeywordSearch) {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a keyword-search suggestion, got %v", result.Suggestions)
	}

	withStatus := Check(ProposedCall{Tool: ToolSearchConvos, HasStatus: true}, NewCallContext())
	if len(withStatus.Suggestions) != 0 {
		t.Errorf("Expected no suggestion when a status is given, got %v", withStatus.Suggestions)
	}
}

func TestCheck_IndependentRulesAccumulate(t *testing.T) {
	ctx := NewCallContext()
	ctx.SetUserRequest("look in the sales queue")

	result := Check(ProposedCall{Tool: ToolKeywordSearch, SearchTerms: nil}, ctx)

	if result.Valid {
		t.Fatal("Expected validation to fail")
	}
	if len(result.Errors) < 2 {
		t.Errorf("Expected both the inbox rule and the terms rule to fire, got %v", result.Errors)
	}
}

func TestCheck_DoesNotMutateContext(t *testing.T) {
	ctx := NewCallContext()
	ctx.SetUserRequest("billing inbox please")

	Check(ProposedCall{Tool: ToolKeywordSearch}, ctx)

	if len(ctx.History()) != 0 {
		t.Error("Validation must not record anything into the call history")
	}
}
