package match

import (
	"testing"
	"time"
)

func TestClassify_SynonymTable(t *testing.T) {
	cases := []struct {
		status string
		want   Category
	}{
		{"Over", CategoryFinished},
		{"Finished", CategoryFinished},
		{"Match Finished", CategoryFinished},
		{"Slutspelad", CategoryFinished},
		{"slutspelad efter förlängning", CategoryFinished},
		{"FT", CategoryFinished},
		{"AET", CategoryFinished},
		{"Live", CategoryLive},
		{"LIVE", CategoryLive},
		{"Ongoing", CategoryLive},
		{"InProgress", CategoryLive},
		{"Halftime", CategoryLive},
		{"Half-Time", CategoryLive},
		{"Overtime", CategoryLive},
		{"2nd Half", CategoryLive},
		{"Upcoming", CategoryUpcoming},
		{"Not Started", CategoryUpcoming},
		{"Kommande", CategoryUpcoming},
		{"Scheduled", CategoryUpcoming},
		{"ej startad", CategoryUpcoming},
		{"", CategoryOther},
		{"   ", CategoryOther},
		{"Postponed", CategoryOther},
		{"garbage-status", CategoryOther},
	}

	for _, tc := range cases {
		if got := Classify(tc.status); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.status, got, tc.want)
		}
	}
}

// The short finished abbreviations must only match whole words. A live
// status that merely contains them ("Halftime", "Overtime") would otherwise
// freeze a running match: permanent cache entry, archive write, poll stop.
func TestClassify_AbbreviationsMatchWholeWordsOnly(t *testing.T) {
	cases := []struct {
		status string
		want   Category
	}{
		{"FT", CategoryFinished},
		{"2-1 (FT)", CategoryFinished},
		{"AET", CategoryFinished},
		{"Over", CategoryFinished},
		{"Halftime", CategoryLive},
		{"Overtime", CategoryLive},
	}

	for _, tc := range cases {
		if got := Classify(tc.status); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestClassify_IsDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := Classify("Slutspelad"); got != CategoryFinished {
			t.Fatalf("iteration %d: got %s", i, got)
		}
	}
}

func TestClassifyWithKickoff_AmbiguousStatus(t *testing.T) {
	now := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)

	if got := ClassifyWithKickoff("", now.Add(2*time.Hour), now); got != CategoryUpcoming {
		t.Fatalf("future kickoff with empty status: got %s, want %s", got, CategoryUpcoming)
	}
	if got := ClassifyWithKickoff("", now.Add(-2*time.Hour), now); got != CategoryOther {
		t.Fatalf("past kickoff with empty status: got %s, want %s", got, CategoryOther)
	}
	if got := ClassifyWithKickoff("", time.Time{}, now); got != CategoryOther {
		t.Fatalf("zero kickoff with empty status: got %s, want %s", got, CategoryOther)
	}
	// A recognizable status always wins over the kickoff heuristic.
	if got := ClassifyWithKickoff("Live", now.Add(2*time.Hour), now); got != CategoryLive {
		t.Fatalf("live status with future kickoff: got %s, want %s", got, CategoryLive)
	}
}
