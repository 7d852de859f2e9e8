package lineup

// Lineup holds both team sheets for one match as returned by the
// sports-data provider.
type Lineup struct {
	Home TeamSheet
	Away TeamSheet
}

// TeamSheet is one side's named squad for the match.
type TeamSheet struct {
	TeamID  string
	Name    string
	Coach   string
	Players []Player
}

type Player struct {
	ID       string
	Name     string
	Number   int
	Position string
	Captain  bool
	Starting bool
}

// Unavailable is the placeholder returned when a player id from an event
// feed cannot be resolved against either team sheet.
var Unavailable = Player{Name: "Spelare saknas"}

// FindPlayer searches the concatenation of home and away players for the
// given id. A miss yields the Unavailable placeholder, never an error.
func (l *Lineup) FindPlayer(playerID string) Player {
	if l == nil || playerID == "" {
		return Unavailable
	}
	for _, p := range l.Home.Players {
		if p.ID == playerID {
			return p
		}
	}
	for _, p := range l.Away.Players {
		if p.ID == playerID {
			return p
		}
	}
	return Unavailable
}
