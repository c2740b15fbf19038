package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type subscriber struct {
	ch        chan entity.Event
	closeOnce sync.Once
}

func (that *subscriber) close() {
	that.closeOnce.Do(func() { close(that.ch) })
}

type memoryEvents struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

// NewMemoryEventRepository - in-process fan-out. Slow subscribers are dropped.
func NewMemoryEventRepository() EventRepository {
	return &memoryEvents{
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

func (that *memoryEvents) Publish(_ context.Context, event entity.Event) error {
	if event.GameID == "" {
		return ErrEmptyGameID
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	for sub := range that.subs[event.GameID] {
		select {
		case sub.ch <- event:
		default:
			sub.close()
			delete(that.subs[event.GameID], sub)
		}
	}

	return nil
}

func (that *memoryEvents) Subscribe(ctx context.Context, gameID string) (<-chan entity.Event, func(), error) {
	if gameID == "" {
		return nil, nil, ErrEmptyGameID
	}

	sub := &subscriber{ch: make(chan entity.Event, subscriberBuffer)}

	that.mu.Lock()
	if that.subs[gameID] == nil {
		that.subs[gameID] = make(map[*subscriber]struct{})
	}
	that.subs[gameID][sub] = struct{}{}
	that.mu.Unlock()

	stop := make(chan struct{})

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			that.mu.Lock()
			delete(that.subs[gameID], sub)
			if len(that.subs[gameID]) == 0 {
				delete(that.subs, gameID)
			}
			that.mu.Unlock()

			sub.close()
			close(stop)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-stop:
		}
	}()

	return sub.ch, unsubscribe, nil
}
