package services

import (
	"testing"
)

func strp(s string) *string { return &s }

func TestDiffFieldsSingleChangedField(t *testing.T) {
	// Rationale changes from "foo" to "bar", rating stays put.
	former := map[string]*string{
		"rating":    strp("3"),
		"rationale": strp("foo"),
		"notes":     nil,
	}
	updated := map[string]*string{
		"rating":    strp("3"),
		"rationale": strp("bar"),
		"notes":     nil,
	}

	changes := DiffFields(former, updated)
	if len(changes) != 1 {
		t.Fatalf("expected exactly 1 change, got %d", len(changes))
	}
	if changes[0].Field != "rationale" {
		t.Fatalf("expected field rationale, got %s", changes[0].Field)
	}
	if changes[0].Former == nil || *changes[0].Former != "foo" {
		t.Fatalf("unexpected former value: %v", changes[0].Former)
	}
	if changes[0].New == nil || *changes[0].New != "bar" {
		t.Fatalf("unexpected new value: %v", changes[0].New)
	}
}

func TestDiffFieldsNoChangesProducesNothing(t *testing.T) {
	snapshot := map[string]*string{
		"rating":    strp("4"),
		"rationale": strp("solid evidence"),
		"notes":     nil,
	}

	if changes := DiffFields(snapshot, snapshot); len(changes) != 0 {
		t.Fatalf("expected no changes, got %d", len(changes))
	}
}

func TestDiffFieldsExcludesHousekeepingTimestamps(t *testing.T) {
	former := map[string]*string{
		"rating":     strp("2"),
		"update_at":  strp("2024-01-01T00:00:00Z"),
		"updated_at": strp("2024-01-01T00:00:00Z"),
		"created_at": strp("2024-01-01T00:00:00Z"),
		"started_at": strp("2024-01-01T00:00:00Z"),
	}
	updated := map[string]*string{
		"rating":     strp("5"),
		"update_at":  strp("2024-06-01T00:00:00Z"),
		"updated_at": strp("2024-06-01T00:00:00Z"),
		"created_at": strp("2024-06-01T00:00:00Z"),
		"started_at": strp("2024-06-01T00:00:00Z"),
	}

	changes := DiffFields(former, updated)
	if len(changes) != 1 {
		t.Fatalf("expected only the rating change, got %d", len(changes))
	}
	if changes[0].Field != "rating" {
		t.Fatalf("expected field rating, got %s", changes[0].Field)
	}
}

func TestDiffFieldsNilToValue(t *testing.T) {
	former := map[string]*string{"notes": nil}
	updated := map[string]*string{"notes": strp("follow up with site manager")}

	changes := DiffFields(former, updated)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].Former != nil {
		t.Fatalf("expected nil former value, got %v", *changes[0].Former)
	}
}

func TestDiffFieldsStableOrder(t *testing.T) {
	former := map[string]*string{
		"rating":    strp("1"),
		"rationale": strp("a"),
		"notes":     strp("x"),
	}
	updated := map[string]*string{
		"rating":    strp("2"),
		"rationale": strp("b"),
		"notes":     strp("y"),
	}

	changes := DiffFields(former, updated)
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}
	expected := []string{"notes", "rating", "rationale"}
	for i, field := range expected {
		if changes[i].Field != field {
			t.Fatalf("position %d: expected %s, got %s", i, field, changes[i].Field)
		}
	}
}
