package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const publishTimeout = 2 * time.Second

// eventNotifier turns controller notifications into events of one game.
type eventNotifier struct {
	logger *slog.Logger
	events eventRepo
	gameID string
}

func (that *eventNotifier) CellFilled(index int, mark string) {
	that.publish(entity.Event{Type: entity.EventCellFilled, Index: index, Mark: mark})
}

func (that *eventNotifier) StatusChanged(text string) {
	that.publish(entity.Event{Type: entity.EventStatusChanged, Text: text})
}

func (that *eventNotifier) BoardCleared() {
	that.publish(entity.Event{Type: entity.EventBoardCleared})
}

func (that *eventNotifier) publish(event entity.Event) {
	event.GameID = that.gameID

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := that.events.Publish(ctx, event); err != nil {
		that.logger.Error("failed to publish event", "type", event.Type, "error", err)
	}
}
