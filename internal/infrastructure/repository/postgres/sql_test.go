package postgres

import (
	"database/sql"
	"errors"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if isNotFound(errors.New("pq: connection refused")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestNullableString(t *testing.T) {
	if got := nullableString(""); got != nil {
		t.Fatalf("expected nil for empty string, got %q", *got)
	}
	got := nullableString("8")
	if got == nil || *got != "8" {
		t.Fatalf("unexpected pointer for non-empty string: %v", got)
	}
}

func TestDerefString(t *testing.T) {
	if got := derefString(nil); got != "" {
		t.Fatalf("expected empty string for nil, got %q", got)
	}
	value := "2026"
	if got := derefString(&value); got != "2026" {
		t.Fatalf("unexpected deref: %q", got)
	}
}
