package entity

// Player is a browser session. The session always plays HumanMark against the computer.
type Player struct {
	ID     string `json:"id"`
	GameID string `json:"game_id,omitempty"`
}
