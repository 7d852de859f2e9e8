package standings

// Row is one team's line in a league table.
type Row struct {
	TeamID       string
	TeamName     string
	Position     int
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	Points       int
}

// Valid reports whether the row carries the fields every consumer needs.
// Rows missing an id or display name are discarded during ingestion rather
// than propagated.
func (r Row) Valid() bool {
	return r.TeamID != "" && r.TeamName != ""
}

// FilterValid drops malformed rows and keeps the rest, preserving order.
func FilterValid(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Valid() {
			out = append(out, row)
		}
	}
	return out
}
