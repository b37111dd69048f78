package timeutil

import (
	"testing"
	"time"

	"tableflip.dev/dailyreport/pkg/datekey"
)

func TestParseWindowDefault(t *testing.T) {
	days, label, err := ParseWindow("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 7 {
		t.Fatalf("expected 7 days, got %d", days)
	}
	if label != "1w" {
		t.Fatalf("expected label 1w, got %s", label)
	}
}

func TestParseWindowComposite(t *testing.T) {
	days, label, err := ParseWindow("1w 10d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 17 {
		t.Fatalf("expected 17, got %d", days)
	}
	if label != "2w3d" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3h", "0d"} {
		if _, _, err := ParseWindow(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestSince(t *testing.T) {
	now := time.Date(2024, time.March, 2, 23, 30, 0, 0, time.UTC)
	tests := map[int]datekey.Key{
		1: "2024-03-02",
		2: "2024-03-01",
		7: "2024-02-25",
	}
	for days, want := range tests {
		if got := Since(now, days); got != want {
			t.Fatalf("Since(%d) = %s, want %s", days, got, want)
		}
	}
}
