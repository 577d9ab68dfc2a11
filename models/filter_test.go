package models

import "testing"

func testMeta() ChunkMetadata {
	return ChunkMetadata{
		DocumentID:     "doc1",
		ChunkIndex:     2,
		Department:     "HR",
		Category:       "policies",
		Classification: "internal",
		Language:       "ar",
	}
}

func TestEqFilter(t *testing.T) {
	m := testMeta()
	if !(Eq{Field: "department", Value: "HR"}).Matches(m) {
		t.Error("Eq should match equal field")
	}
	if (Eq{Field: "department", Value: "IT"}).Matches(m) {
		t.Error("Eq should not match different value")
	}
	// Unknown fields match nothing, not everything.
	if (Eq{Field: "owner", Value: ""}).Matches(m) != true {
		t.Error("unknown field compares against empty string")
	}
	if (Eq{Field: "owner", Value: "x"}).Matches(m) {
		t.Error("unknown field must not match a non-empty value")
	}
}

func TestInFilter(t *testing.T) {
	m := testMeta()
	if !(In{Field: "classification", Values: []string{"public", "internal"}}).Matches(m) {
		t.Error("In should match a member value")
	}
	if (In{Field: "classification", Values: []string{"public"}}).Matches(m) {
		t.Error("In should not match a non-member value")
	}
	if (In{Field: "classification", Values: nil}).Matches(m) {
		t.Error("empty In matches nothing")
	}
}

func TestAndFilter(t *testing.T) {
	m := testMeta()
	both := And{
		Eq{Field: "department", Value: "HR"},
		In{Field: "language", Values: []string{"ar", "en"}},
	}
	if !both.Matches(m) {
		t.Error("And should match when all sub-filters match")
	}

	mixed := And{
		Eq{Field: "department", Value: "HR"},
		Eq{Field: "language", Value: "en"},
	}
	if mixed.Matches(m) {
		t.Error("And should fail when any sub-filter fails")
	}

	if !(And{}).Matches(m) {
		t.Error("empty And matches everything")
	}
	if !(And{nil, Eq{Field: "department", Value: "HR"}}).Matches(m) {
		t.Error("nil sub-filters are skipped")
	}
}

func TestMatchesFilterNil(t *testing.T) {
	if !MatchesFilter(nil, testMeta()) {
		t.Error("nil filter matches everything")
	}
}
