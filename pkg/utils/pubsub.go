package utils

import (
	"github.com/sasha-s/go-deadlock"
)

// Topic fans values out to any number of subscribers. Game events are
// fire-and-forget: a subscriber that falls behind its buffer misses
// events rather than stalling the scheduler goroutine.
type Topic[T any] struct {
	subscribers map[chan T]struct{}
	mutex       deadlock.Mutex
}

func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{
		subscribers: make(map[chan T]struct{}),
	}
}

func (t *Topic[T]) Publish(value T) {
	t.mutex.Lock()
	for subscriber := range t.subscribers {
		select {
		case subscriber <- value:
		default:
		}
	}
	t.mutex.Unlock()
}

type Subscriber[T any] struct {
	channel chan T
	topic   *Topic[T]
}

func (t *Topic[T]) Subscribe() *Subscriber[T] {
	channel := make(chan T, 64)
	t.mutex.Lock()
	t.subscribers[channel] = struct{}{}
	t.mutex.Unlock()

	return &Subscriber[T]{channel, t}
}

func (s *Subscriber[T]) Recv() <-chan T {
	return s.channel
}

func (s *Subscriber[T]) Done() {
	topic := s.topic
	topic.mutex.Lock()
	delete(topic.subscribers, s.channel)
	topic.mutex.Unlock()
}
