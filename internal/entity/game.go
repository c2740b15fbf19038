package entity

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

// HumanMark and ComputerMark are fixed: the human always plays X and moves first.
const (
	HumanMark    = PlayerX
	ComputerMark = PlayerO
)

const (
	CenterCell = 4
	BoardSize  = 9
)

var (
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}

	CornerCells = [4]int{0, 2, 6, 8}
)

// Board is the 3x3 grid stored row-major: index = row*3 + col.
type Board [BoardSize]string

// EmptyCells returns the indexes of all empty cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

type Game struct {
	ID     string `json:"id"`
	Board  Board  `json:"board"`
	Winner string `json:"winner"`
	Status string `json:"status"`
	Turn   string `json:"player_turn"`
	Epoch  uint64 `json:"epoch"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		Board:  Board{EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell},
		Turn:   PlayerX,
		Status: StatusWaiting,
	}
}

// Reset - clears the board, hands the turn to X and activates the game.
// Every reset starts a new epoch.
func (that *Game) Reset() {
	that.Board = Board{}
	that.Turn = PlayerX
	that.Winner = ""
	that.Status = StatusOngoing
	that.Epoch++
}

// Finish - deactivates the game with the given winner (PlayerTie for a draw).
func (that *Game) Finish(winner string) {
	that.Winner = winner
	that.Status = StatusFinished
	that.Turn = ""
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsActive() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func ToggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
