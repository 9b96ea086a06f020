package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubScopesByBusiness(t *testing.T) {
	hub := NewHub(4)
	bizA, bizB := uuid.New(), uuid.New()

	chA, cancelA := hub.Subscribe(bizA)
	defer cancelA()
	chB, cancelB := hub.Subscribe(bizB)
	defer cancelB()

	id := uuid.New()
	require.NoError(t, hub.Publish(context.Background(), Event{Collection: Orders, Action: Created, BusinessID: bizA, ID: id}))

	select {
	case ev := <-chA:
		assert.Equal(t, id, ev.ID)
	case <-time.After(time.Second):
		t.Fatal("subscriber A did not receive the event")
	}
	select {
	case ev := <-chB:
		t.Fatalf("subscriber B received %v", ev)
	default:
	}
}

func TestHubCancel(t *testing.T) {
	hub := NewHub(1)
	biz := uuid.New()
	ch, cancel := hub.Subscribe(biz)
	assert.Equal(t, 1, hub.Subscribers(biz))

	cancel()
	cancel()
	assert.Equal(t, 0, hub.Subscribers(biz))
	_, ok := <-ch
	assert.False(t, ok)
}

func TestHubDropsWhenFull(t *testing.T) {
	hub := NewHub(1)
	biz := uuid.New()
	ch, cancel := hub.Subscribe(biz)
	defer cancel()

	ctx := context.Background()
	require.NoError(t, hub.Publish(ctx, Event{Collection: Tables, BusinessID: biz}))
	require.NoError(t, hub.Publish(ctx, Event{Collection: Bills, BusinessID: biz}))

	ev := <-ch
	assert.Equal(t, Tables, ev.Collection)
	assert.Len(t, ch, 0)
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, Event) error {
	f.calls++
	return errors.New("broker down")
}

func TestNotifySwallowsErrors(t *testing.T) {
	p := &failingPublisher{}
	Notify(context.Background(), p, Orders, Updated, uuid.New(), uuid.New())
	assert.Equal(t, 1, p.calls)

	Notify(context.Background(), nil, Orders, Updated, uuid.New(), uuid.New())
}

func TestDecode(t *testing.T) {
	ev, err := decode([]byte(`{"collection":"orders","action":"updated"}`))
	require.NoError(t, err)
	assert.Equal(t, Updated, ev.Action)

	_, err = decode([]byte(`{}`))
	assert.Error(t, err)
	_, err = decode([]byte(`not json`))
	assert.Error(t, err)
}
