package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"procurehub/internal/telemetry/domain"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []*domain.Event
	err    error
	done   chan struct{}
}

func (r *recordingEmitter) Emit(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	if r.done != nil {
		close(r.done)
	}
	return r.err
}

func TestEmitAsync(t *testing.T) {
	em := &recordingEmitter{done: make(chan struct{})}
	EmitAsync(em, context.Background(), &domain.Event{EventType: "access_denied", OrgID: "org-1"})

	select {
	case <-em.done:
	case <-time.After(2 * time.Second):
		t.Fatal("emit did not run")
	}
	em.mu.Lock()
	defer em.mu.Unlock()
	if len(em.events) != 1 || em.events[0].EventType != "access_denied" {
		t.Errorf("events = %+v", em.events)
	}
}

func TestEmitAsync_NilSafe(t *testing.T) {
	EmitAsync(nil, context.Background(), &domain.Event{})
	EmitAsync(&recordingEmitter{}, context.Background(), nil)
}

func TestEmitAsync_ErrorLoggedNotRaised(t *testing.T) {
	em := &recordingEmitter{err: errors.New("broker down"), done: make(chan struct{})}
	EmitAsync(em, context.Background(), &domain.Event{EventType: "member_added"})
	select {
	case <-em.done:
	case <-time.After(2 * time.Second):
		t.Fatal("emit did not run")
	}
}
