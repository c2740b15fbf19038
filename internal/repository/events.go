package repository

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const subscriberBuffer = 16

var ErrEmptyGameID = errors.New("game id is empty")

// EventRepository delivers view notifications of a game to its subscribers.
type EventRepository interface {
	Publish(ctx context.Context, event entity.Event) error
	// Subscribe returns a channel of the game's events and a func that ends the
	// subscription. The channel is closed when the subscription ends or ctx is done.
	Subscribe(ctx context.Context, gameID string) (<-chan entity.Event, func(), error)
}

func eventsChannel(gameID string) string {
	return "game:" + gameID + ":events"
}
