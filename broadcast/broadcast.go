// Package broadcast carries SharedSettings snapshots from the instructor to
// every student view. There is a single message type, the full snapshot,
// and the newest one published always wins.
package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jrwynneiii/scopetrainer/scope"
)

type Publisher interface {
	Publish(ctx context.Context, s scope.SharedSettings) error
}

// Subscriber delivers every snapshot received after the call. The returned
// func removes the subscription.
type Subscriber interface {
	Subscribe(fn func(scope.SharedSettings)) func()
}

type Transport interface {
	Publisher
	Subscriber
}

// Envelope is what travels over the wire.
type Envelope struct {
	Origin   uuid.UUID            `json:"origin"`
	Settings scope.SharedSettings `json:"settings"`
}

// subscribers is the fan-out list shared by every transport.
type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(scope.SharedSettings)
}

func (s *subscribers) add(fn func(scope.SharedSettings)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(scope.SharedSettings))
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.fns, id)
		s.mu.Unlock()
	}
}

func (s *subscribers) snapshot() []func(scope.SharedSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func(scope.SharedSettings), 0, len(s.fns))
	for _, fn := range s.fns {
		out = append(out, fn)
	}
	return out
}

func (s *subscribers) deliver(settings scope.SharedSettings) {
	for _, fn := range s.snapshot() {
		fn(settings)
	}
}

// Bus is the in-process transport: publishing calls every subscriber
// synchronously. A late subscriber is handed the latest snapshot right
// away.
type Bus struct {
	subs subscribers

	mu     sync.Mutex
	latest *scope.SharedSettings
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Publish(ctx context.Context, s scope.SharedSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	b.latest = &s
	b.mu.Unlock()
	b.subs.deliver(s)
	return nil
}

func (b *Bus) Subscribe(fn func(scope.SharedSettings)) func() {
	cancel := b.subs.add(fn)
	if s, ok := b.Latest(); ok {
		fn(s)
	}
	return cancel
}

func (b *Bus) Latest() (scope.SharedSettings, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.latest == nil {
		return scope.SharedSettings{}, false
	}
	return *b.latest, true
}
