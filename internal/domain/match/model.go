package match

import "time"

// UnifiedMatch is the resolved, presentation-ready match record. Consumers
// treat it as a read-only projection.
type UnifiedMatch struct {
	ID              string
	LegacyID        int64
	ExternalMatchID string
	LeagueID        string
	LeagueName      string
	Season          string
	Slug            string
	KickoffAt       time.Time
	ModifiedAt      time.Time
	Status          string
	Arena           string
	HomeTeam        TeamRef
	AwayTeam        TeamRef
	HomeScore       *int
	AwayScore       *int
	Referees        []string
	IsCustomGame    bool
	Overrides       Overrides
}

// TeamRef identifies one side of a match.
type TeamRef struct {
	ID   string
	Name string
}

// Overrides carries the CMS-only fields. Once set from the CMS record they
// are never replaced by provider values, even when the provider record is
// merged in for score and lineup.
type Overrides struct {
	TicketURL   string
	SoldTickets *int
	CTAText     string
	CTALink     string
}

// HasTicketInfo reports whether any ticket override was curated in the CMS.
func (o Overrides) HasTicketInfo() bool {
	return o.TicketURL != "" || o.SoldTickets != nil
}
