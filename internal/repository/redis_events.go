package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type redisEvents struct {
	logger *slog.Logger
	client *redis.Client
}

// NewRedisEventRepository - events travel over Redis pub/sub, one channel per game.
func NewRedisEventRepository(logger *slog.Logger, client *redis.Client) EventRepository {
	return &redisEvents{
		logger: logger.With("component", "redis_events"),
		client: client,
	}
}

func (that *redisEvents) Publish(ctx context.Context, event entity.Event) error {
	if event.GameID == "" {
		return ErrEmptyGameID
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, eventsChannel(event.GameID), eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (that *redisEvents) Subscribe(ctx context.Context, gameID string) (<-chan entity.Event, func(), error) {
	if gameID == "" {
		return nil, nil, ErrEmptyGameID
	}

	pubsub := that.client.Subscribe(ctx, eventsChannel(gameID))

	// wait for the subscription to be confirmed so no event published afterwards is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to events: %w", err)
	}

	out := make(chan entity.Event, subscriberBuffer)
	stop := make(chan struct{})

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() { close(stop) })
	}

	go that.forward(ctx, pubsub, out, stop)

	return out, unsubscribe, nil
}

func (that *redisEvents) forward(ctx context.Context, pubsub *redis.PubSub, out chan<- entity.Event, stop <-chan struct{}) {
	log := that.logger.With("method", "forward")

	defer close(out)
	defer func() {
		if err := pubsub.Close(); err != nil {
			log.Error("could not close subscription", "error", err)
		}
	}()

	messages := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var event entity.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Error("failed to unmarshal event", "error", err)
				continue
			}

			select {
			case out <- event:
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}
}
