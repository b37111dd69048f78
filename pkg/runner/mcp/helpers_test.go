package mcp

import (
	"testing"

	"tableflip.dev/dailyreport/pkg/datekey"
)

func datekeyOf(t *testing.T, s string) datekey.Key {
	t.Helper()
	k, err := datekey.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return k
}
