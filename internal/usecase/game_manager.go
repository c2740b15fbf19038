package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

var ErrEmptyPlayerID = errors.New("player id is empty")

type eventRepo interface {
	Publish(ctx context.Context, event entity.Event) error
	Subscribe(ctx context.Context, gameID string) (<-chan entity.Event, func(), error)
}

type bot interface {
	ChooseMove(board entity.Board) (int, error)
}

type session struct {
	player     *entity.Player
	controller *tictactoe.GameController
}

// GameManager keeps one game against the computer per player session.
type GameManager struct {
	logger *slog.Logger

	events    eventRepo
	bot       bot
	scheduler tictactoe.Scheduler
	delays    tictactoe.Delays

	mu       sync.Mutex
	sessions map[string]*session
}

func NewGameManager(
	logger *slog.Logger,
	events eventRepo,
	bot bot,
	scheduler tictactoe.Scheduler,
	delays tictactoe.Delays,
) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		events:    events,
		bot:       bot,
		scheduler: scheduler,
		delays:    delays,

		sessions: make(map[string]*session),
	}
}

// GetOrCreateGame - returns the player's game, starting a new one on the first visit.
func (that *GameManager) GetOrCreateGame(_ context.Context, playerID string) (tictactoe.View, error) {
	sess, err := that.getOrCreateSession(playerID)
	if err != nil {
		return tictactoe.View{}, fmt.Errorf("failed to get or create game: %w", err)
	}

	return sess.controller.Snapshot(), nil
}

// MakeTurn - the player clicked a cell. Illegal clicks leave the game untouched
// and are not reported as errors.
func (that *GameManager) MakeTurn(_ context.Context, playerID string, cell int) (tictactoe.View, error) {
	log := that.logger.With("method", "MakeTurn")

	sess, err := that.getSession(playerID)
	if err != nil {
		return tictactoe.View{}, fmt.Errorf("failed get game by player id: %w", err)
	}

	if err = sess.controller.OnCellActivated(cell); err != nil {
		log.Debug("turn ignored", "player_id", playerID, "cell", cell, "reason", err)
	}

	return sess.controller.Snapshot(), nil
}

// ResetGame - starts the player's game over.
func (that *GameManager) ResetGame(_ context.Context, playerID string) (tictactoe.View, error) {
	sess, err := that.getSession(playerID)
	if err != nil {
		return tictactoe.View{}, fmt.Errorf("failed get game by player id: %w", err)
	}

	sess.controller.OnResetRequested()

	return sess.controller.Snapshot(), nil
}

// GetGame - current state of the player's game.
func (that *GameManager) GetGame(_ context.Context, playerID string) (tictactoe.View, error) {
	sess, err := that.getSession(playerID)
	if err != nil {
		return tictactoe.View{}, fmt.Errorf("failed get game by player id: %w", err)
	}

	return sess.controller.Snapshot(), nil
}

// Subscribe - events of the player's game until ctx is done or the returned func is called.
func (that *GameManager) Subscribe(ctx context.Context, playerID string) (<-chan entity.Event, func(), error) {
	sess, err := that.getSession(playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed get game by player id: %w", err)
	}

	events, unsubscribe, err := that.events.Subscribe(ctx, sess.player.GameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to subscribe to game events: %w", err)
	}

	return events, unsubscribe, nil
}

func (that *GameManager) getSession(playerID string) (*session, error) {
	if playerID == "" {
		return nil, ErrEmptyPlayerID
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.sessions[playerID]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return sess, nil
}

func (that *GameManager) getOrCreateSession(playerID string) (*session, error) {
	if playerID == "" {
		return nil, ErrEmptyPlayerID
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.sessions[playerID]
	if !ok {
		sess = that.createSession(playerID)
		that.sessions[playerID] = sess

		sess.controller.OnGameStart()
	}

	return sess, nil
}

func (that *GameManager) createSession(playerID string) *session {
	player := &entity.Player{
		ID:     playerID,
		GameID: uuid.NewString(),
	}

	notifier := &eventNotifier{
		logger: that.logger.With("game_id", player.GameID),
		events: that.events,
		gameID: player.GameID,
	}

	controller := tictactoe.NewGameController(
		that.logger,
		entity.NewGame(player.GameID),
		that.bot,
		notifier,
		that.scheduler,
		that.delays,
	)

	that.logger.Info("game created", "player_id", playerID, "game_id", player.GameID)

	return &session{player: player, controller: controller}
}
