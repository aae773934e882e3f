package clipweave

import "testing"

func TestFDateFormatsISOInput(t *testing.T) {
	got := runFilter(t, "date", `("YYYY/MM/DD")`, "2026-03-05").asString()
	if got != "2026/03/05" {
		t.Fatalf("got %q", got)
	}
}

func TestFDateUnparsableInputPassesThrough(t *testing.T) {
	got := runFilter(t, "date", `("YYYY-MM-DD")`, "not a date").asString()
	if got != "not a date" {
		t.Fatalf("got %q", got)
	}
}

func TestFDateModifyAddsInterval(t *testing.T) {
	got := runFilter(t, "date_modify", `("+1 day")`, "2026-03-05").asString()
	if got != "2026-03-06T00:00:00Z" {
		t.Fatalf("got %q", got)
	}
}

func TestFDateModifySubtractsInterval(t *testing.T) {
	got := runFilter(t, "date_modify", `("-2 month")`, "2026-03-05").asString()
	if got != "2026-01-05T00:00:00Z" {
		t.Fatalf("got %q", got)
	}
}

func TestFDurationFromISO8601(t *testing.T) {
	got := runFilter(t, "duration", "", "PT1H30M").asString()
	if got != "1:30:00" {
		t.Fatalf("got %q", got)
	}
}

func TestFDurationFromSeconds(t *testing.T) {
	got := runFilter(t, "duration", "", "90").asString()
	if got != "0:01:30" {
		t.Fatalf("got %q", got)
	}
}
