package timeline

import (
	"strconv"

	"github.com/skanelive/matchcenter/internal/domain/lineup"
)

// Event is one entry in the generic match event feed. Goal carries the
// detail record when one matched on timestamp, otherwise nil.
type Event struct {
	Timestamp   string
	Type        string
	Minute      *int
	Second      *int
	HomeScore   *int
	AwayScore   *int
	Description string
	Goal        *GoalDetail
}

// GoalDetail is one entry of the goal-detail feed. The feeds are produced
// independently; the shared timestamp is the only join key.
type GoalDetail struct {
	Timestamp    string
	ScorerID     string
	AssistID     string
	GoalType     string
	ShotPosition string
	GoalPosition string
	Scorer       lineup.Player
	Assister     lineup.Player
}

// ReportEntry is one narrative live-report item, independent of the
// event/goal feeds.
type ReportEntry struct {
	ID       string
	Headline string
	Body     string
	Minute   *int
	VideoRef string
}

// ClockUnavailable is the label used when neither minute nor second is
// usable for an event.
const ClockUnavailable = "-"

// Merge attaches goal details to events by exact timestamp equality and
// returns the result most-recent-first. The input feed is chronological;
// reversal happens once, after all details are attached. Details without a
// timestamp-matching event are dropped. Matching is on timestamp only, not
// on event type.
func Merge(events []Event, goals []GoalDetail) []Event {
	detailByTimestamp := make(map[string]GoalDetail, len(goals))
	for _, g := range goals {
		detailByTimestamp[g.Timestamp] = g
	}

	merged := make([]Event, len(events))
	for i, ev := range events {
		if g, ok := detailByTimestamp[ev.Timestamp]; ok {
			detail := g
			ev.Goal = &detail
		}
		merged[i] = ev
	}

	for i, j := 0, len(merged)-1; i < j; i, j = i+1, j-1 {
		merged[i], merged[j] = merged[j], merged[i]
	}

	return merged
}

// Enrich resolves scorer and assister identities for every merged goal
// against the two team sheets. Missing players resolve to the
// lineup.Unavailable placeholder.
func Enrich(events []Event, sheets *lineup.Lineup) {
	for i := range events {
		if events[i].Goal == nil {
			continue
		}
		events[i].Goal.Scorer = sheets.FindPlayer(events[i].Goal.ScorerID)
		events[i].Goal.Assister = sheets.FindPlayer(events[i].Goal.AssistID)
	}
}

// ClockLabel renders the human-readable game clock for an event: the minute
// when set and non-zero, else the second when set, else ClockUnavailable.
// The upstream feed conflates a zero minute with an absent one, so a zero
// minute deliberately falls through to the second value here.
func (e Event) ClockLabel() string {
	if e.Minute != nil && *e.Minute != 0 {
		return strconv.Itoa(*e.Minute) + "'"
	}
	if e.Second != nil {
		return strconv.Itoa(*e.Second) + "s"
	}
	return ClockUnavailable
}
