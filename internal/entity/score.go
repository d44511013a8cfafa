package entity

// Score is the running tally of one pairing of players.
type Score struct {
	SessionID string    `json:"session_id"`
	Players   [2]string `json:"players"`
	Marks     [2]string `json:"marks"`
	Wins      [2]int    `json:"wins"`
	Draws     int       `json:"draws"`
	Matches   int       `json:"matches"`
}

func NewScore(sessionID string, first, second *Player) *Score {
	return &Score{
		SessionID: sessionID,
		Players:   [2]string{first.Name, second.Name},
		Marks:     [2]string{first.Mark.String(), second.Mark.String()},
	}
}

// Record adds a finished match. A draw counts for nobody; any other outcome is credited to the seat holding the winning mark.
func (that *Score) Record(outcome Outcome) {
	if !outcome.IsTerminal() {
		return
	}

	that.Matches++

	winner := outcome.Winner().String()
	switch winner {
	case "":
		that.Draws++
	case that.Marks[0]:
		that.Wins[0]++
	case that.Marks[1]:
		that.Wins[1]++
	}
}
