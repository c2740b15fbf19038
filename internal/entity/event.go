package entity

const (
	EventCellFilled    = "cell_filled"
	EventStatusChanged = "status_changed"
	EventBoardCleared  = "board_cleared"
)

// Event is a notification for the view of a single game.
type Event struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
	Index  int    `json:"index,omitempty"`
	Mark   string `json:"mark,omitempty"`
	Text   string `json:"text,omitempty"`
}
