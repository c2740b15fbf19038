package tictactoe

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

var ErrInvalidCell = errors.New("invalid cell index")

// Notifier is the outbound side of the view boundary.
type Notifier interface {
	CellFilled(index int, mark string)
	StatusChanged(text string)
	BoardCleared()
}

type bot interface {
	ChooseMove(board entity.Board) (int, error)
}

// Delays are the computer's "thinking time": Think runs before the cell is chosen,
// Place between choosing it and putting the mark down.
type Delays struct {
	Think time.Duration
	Place time.Duration
}

// View is a consistent copy of the game together with the current status text.
type View struct {
	Game   entity.Game
	Status string
}

// GameController owns one game and is the only place that mutates it.
// Inbound calls and timer callbacks are serialized by mu.
type GameController struct {
	logger *slog.Logger

	mu      sync.Mutex
	game    *entity.Game
	status  string
	pending Timer

	bot       bot
	notifier  Notifier
	scheduler Scheduler
	delays    Delays
}

func NewGameController(
	logger *slog.Logger,
	game *entity.Game,
	bot bot,
	notifier Notifier,
	scheduler Scheduler,
	delays Delays,
) *GameController {
	return &GameController{
		logger:    logger.With("component", "game_controller", "game_id", game.ID),
		game:      game,
		bot:       bot,
		notifier:  notifier,
		scheduler: scheduler,
		delays:    delays,
	}
}

// OnGameStart - fired once when the game is first shown.
func (that *GameController) OnGameStart() {
	that.Reset()
}

// OnResetRequested - the human asked for a new game.
func (that *GameController) OnResetRequested() {
	that.Reset()
}

// OnCellActivated - the human clicked a cell. Rejections are returned for
// callers that care and are never reported to the view.
func (that *GameController) OnCellActivated(index int) error {
	return that.ApplyMove(index, entity.HumanMark)
}

// Reset - empties the board, gives the turn to X and activates the game.
func (that *GameController) Reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.pending != nil {
		that.pending.Stop()
		that.pending = nil
	}

	that.game.Reset()
	that.notifier.BoardCleared()
	that.setStatus(TurnStatus(that.game.Turn))

	that.logger.Info("game reset", "epoch", that.game.Epoch)

	if that.game.Turn == entity.ComputerMark {
		that.scheduleComputerMove()
	}
}

// ApplyMove - places mark at index if the move is legal, then evaluates the board.
func (that *GameController) ApplyMove(index int, mark string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.applyMove(index, mark)
}

// Snapshot - returns a copy of the current game and status text.
func (that *GameController) Snapshot() View {
	that.mu.Lock()
	defer that.mu.Unlock()

	return View{Game: *that.game, Status: that.status}
}

func (that *GameController) applyMove(index int, mark string) error {
	log := that.logger.With("method", "applyMove")

	if err := that.validateMove(index, mark); err != nil {
		log.Debug("move rejected", "cell", index, "mark", mark, "reason", err)
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.game.Board[index] = mark
	that.notifier.CellFilled(index, mark)

	switch outcome := Evaluate(that.game.Board, mark); outcome.Kind {
	case Win:
		that.game.Finish(outcome.Winner)
		that.setStatus(WinStatus(outcome.Winner))
		log.Info("game finished", "winner", outcome.Winner)
	case Draw:
		that.game.Finish(entity.PlayerTie)
		that.setStatus(DrawStatus)
		log.Info("game finished", "winner", entity.PlayerTie)
	default:
		that.game.Turn = entity.ToggleMark(mark)
		that.setStatus(TurnStatus(that.game.Turn))

		if that.game.Turn == entity.ComputerMark {
			that.scheduleComputerMove()
		}
	}

	return nil
}

// validateMove - checks if the move is valid.
func (that *GameController) validateMove(index int, mark string) error {
	if index < 0 || index >= len(that.game.Board) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, index)
	}

	if !that.game.IsActive() {
		return apperror.ErrGameIsNotActive
	}

	if that.game.Board[index] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	if that.game.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	return nil
}

func (that *GameController) setStatus(text string) {
	that.status = text
	that.notifier.StatusChanged(text)
}

// scheduleComputerMove - queues the "think" step. Both deferred steps carry the
// epoch they were created in and give up if a reset happened meanwhile.
func (that *GameController) scheduleComputerMove() {
	epoch := that.game.Epoch

	that.pending = that.scheduler.AfterFunc(that.delays.Think, func() {
		that.computerThink(epoch)
	})
}

func (that *GameController) computerThink(epoch uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "computerThink")

	if !that.isComputerTurn(epoch) {
		log.Debug("stale computer move dropped", "epoch", epoch, "current_epoch", that.game.Epoch)
		return
	}

	cell, err := that.bot.ChooseMove(that.game.Board)
	if err != nil {
		log.Error("computer could not choose a move", "error", err)
		return
	}

	that.pending = that.scheduler.AfterFunc(that.delays.Place, func() {
		that.computerPlace(epoch, cell)
	})
}

func (that *GameController) computerPlace(epoch uint64, cell int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "computerPlace")

	if !that.isComputerTurn(epoch) {
		log.Debug("stale computer move dropped", "epoch", epoch, "current_epoch", that.game.Epoch)
		return
	}

	that.pending = nil

	if err := that.applyMove(cell, entity.ComputerMark); err != nil {
		log.Error("computer move rejected", "cell", cell, "error", err)
	}
}

func (that *GameController) isComputerTurn(epoch uint64) bool {
	return epoch == that.game.Epoch && that.game.IsActive() && that.game.Turn == entity.ComputerMark
}
