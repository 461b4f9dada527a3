package models

// Role identifies one of the two seats at the table.
type Role string

const (
	RoleNone     Role = ""
	RoleHuman    Role = "human"
	RoleOpponent Role = "opponent"
)

// PlayerStats aggregates the finished games of one session.
type PlayerStats struct {
	Games  int `json:"games"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// WinRate returns the share of games won, or 0 before the first game.
func (s PlayerStats) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}
