package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Dispatch", uuid.New())}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []string
	err        error
	panics     bool
}

func (h *testHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, e.EventType())
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) seen() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Running())

	created := &testHandler{eventTypes: []string{"dispatch_created"}}
	all := &testHandler{}
	failing := &testHandler{eventTypes: []string{"dispatch_created"}, err: errors.New("down")}
	panicking := &testHandler{eventTypes: []string{"dispatch_created"}, panics: true}

	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(created)
	bus.Subscribe(all)

	err := bus.Publish(ctx, newTestEvent("dispatch_created"), newTestEvent("dispatch_received"))
	require.NoError(t, err)

	assert.Equal(t, []string{"dispatch_created"}, created.seen())
	assert.Equal(t, []string{"dispatch_created", "dispatch_received"}, all.seen())
	assert.Equal(t, []string{"dispatch_created"}, failing.seen())

	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}

func TestInMemoryEventBus_SubscribeOverridesTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &testHandler{eventTypes: []string{"dispatch_created"}}
	bus.Subscribe(h, "dispatch_cancelled")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("dispatch_created"), newTestEvent("dispatch_cancelled")))
	assert.Equal(t, []string{"dispatch_cancelled"}, h.seen())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	keep := &testHandler{eventTypes: []string{"x"}}
	drop := &testHandler{eventTypes: []string{"x"}}
	wild := &testHandler{}
	bus.Subscribe(keep)
	bus.Subscribe(drop)
	bus.Subscribe(wild)

	bus.Unsubscribe(drop)
	bus.Unsubscribe(wild)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("x")))

	assert.Len(t, keep.seen(), 1)
	assert.Empty(t, drop.seen())
	assert.Empty(t, wild.seen())
}
