package services

import (
	"context"
	"testing"
)

func TestContextAnnotations(t *testing.T) {
	ctx := context.Background()

	if _, ok := SetNumberFromContext(ctx); ok {
		t.Fatal("bare context should carry no set number")
	}

	ctx = WithSetNumber(ctx, "10245-1")
	ctx = WithJobID(ctx, "job-123")

	if set, ok := SetNumberFromContext(ctx); !ok || set != "10245-1" {
		t.Fatalf("set number = %q, ok = %v", set, ok)
	}
	if id, ok := JobIDFromContext(ctx); !ok || id != "job-123" {
		t.Fatalf("job id = %q, ok = %v", id, ok)
	}

	// Empty values do not overwrite or annotate.
	if next := WithSetNumber(ctx, ""); next != ctx {
		t.Fatal("empty set number should leave context untouched")
	}
}
