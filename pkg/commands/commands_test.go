package commands

import (
	"testing"
)

func TestCommandTree(t *testing.T) {
	root := New()
	want := []string{"ui", "unlock", "lock", "hash", "calendar", "show", "save", "delete", "list", "export", "mcp", "version", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Fatalf("missing %q command: %v", name, err)
		}
	}
}

func TestParseMonth(t *testing.T) {
	v, err := parseMonth("2024-02")
	if err != nil || v.Year != 2024 || v.Month != 1 {
		t.Fatalf("parseMonth = %+v, %v", v, err)
	}
	if v, err := parseMonth(""); v != nil || err != nil {
		t.Fatalf("empty month should be nil, got %+v %v", v, err)
	}
	for _, bad := range []string{"2024-13", "24-02", "2024-2"} {
		if _, err := parseMonth(bad); err == nil {
			t.Fatalf("parseMonth(%q) should fail", bad)
		}
	}
}
