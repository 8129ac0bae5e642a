package tui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectConfigLabels(t *testing.T) {
	t.Parallel()

	cfg := SelectConfig{
		Options: []string{"uk", "us", "other"},
		Groups:  []string{"Europe", "Americas"},
		Skip:    skipLabel,
	}
	want := []string{"Europe: uk", "Americas: us", "other"}
	if diff := cmp.Diff(want, cfg.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, SelectConfig{Options: []string{"a", "b"}}.Labels()); diff != "" {
		t.Fatalf("ungrouped labels mismatch (-want +got):\n%s", diff)
	}
}
