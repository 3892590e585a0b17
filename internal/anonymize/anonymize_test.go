package anonymize

import (
	"strings"
	"testing"
)

func TestPlaceholderEmail(t *testing.T) {
	got := PlaceholderEmail("01J5ABCDEF")
	want := "redacted+01j5abcdef@redacted.invalid"
	if got != want {
		t.Errorf("PlaceholderEmail = %q, want %q", got, want)
	}

	// Deterministic: same lead always gets the same placeholder
	if got != PlaceholderEmail("01J5ABCDEF") {
		t.Error("placeholder differs across calls for the same lead")
	}

	// Distinct leads get distinct placeholders
	if PlaceholderEmail("01J5AAAAAA") == PlaceholderEmail("01J5BBBBBB") {
		t.Error("placeholder collides across different leads")
	}
}

func TestPlaceholderMatchesRedactedPrefix(t *testing.T) {
	// DiscardedLeads skips rows whose email already carries this prefix;
	// a placeholder that stopped matching would be redacted forever.
	if !strings.HasPrefix(PlaceholderEmail("01J5ABCDEF"), "redacted+") {
		t.Error("placeholder does not match the redacted prefix filter")
	}
}
