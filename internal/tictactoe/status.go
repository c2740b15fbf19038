package tictactoe

import "github.com/rocketscienceinc/tictactoe-solo/internal/entity"

const DrawStatus = "It's a Draw!"

func displayName(mark string, isWinMessage bool) string {
	if mark == entity.HumanMark {
		if isWinMessage {
			return "You"
		}
		return "Your"
	}

	return "Computer"
}

// TurnStatus - status text announcing whose turn it is.
func TurnStatus(mark string) string {
	return displayName(mark, false) + " Turn"
}

// WinStatus - status text announcing the winner.
func WinStatus(mark string) string {
	return displayName(mark, true) + " Wins!"
}
