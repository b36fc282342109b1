package mq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inkwell-cms/apiserver/config"
	"github.com/inkwell-cms/apiserver/types"
)

type published struct {
	channel string
	data    []byte
	attrs   map[string]string
}

type recordingBackend struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (b *recordingBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return "", b.err
	}
	b.msgs = append(b.msgs, published{channel: channel, data: data, attrs: attrs})
	return "id", nil
}

func (b *recordingBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return nil
}

func (b *recordingBackend) Close() error { return nil }

func TestEventPublisher_PublishesJSON(t *testing.T) {
	backend := &recordingBackend{}
	pub := NewEventPublisher(New(backend), "content-events", nil)

	event := types.ContentEvent{
		Type:       types.EventContentPublished,
		ContentID:  "c1",
		AuthorID:   "u1",
		ActorID:    "u2",
		Status:     types.StatusPublished,
		OccurredAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	pub.PublishContentEvent(context.Background(), event)

	require.Len(t, backend.msgs, 1)
	msg := backend.msgs[0]
	assert.Equal(t, "content-events", msg.channel)
	assert.Equal(t, types.EventContentPublished, msg.attrs[AttrEventType])
	assert.JSONEq(t, `{"type":"content.published","contentId":"c1","authorId":"u1","actorId":"u2","status":"published","occurredAt":"2026-01-01T00:00:00Z"}`, string(msg.data))

	decoded, err := DecodeContentEvent(Message{Data: msg.data})
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestEventPublisher_LogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	backend := &recordingBackend{err: errors.New("broker down")}
	pub := NewEventPublisher(New(backend), "content-events", zap.New(core))

	pub.PublishContentEvent(context.Background(), types.ContentEvent{Type: types.EventContentDeleted, ContentID: "c1"})

	entries := logs.FilterMessage("publish content event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "c1", entries[0].ContextMap()["content_id"])
}

func TestDiscard(t *testing.T) {
	m, err := Open(context.Background(), config.Config{MQBackend: config.MQNone})
	require.NoError(t, err)

	id, err := m.Publish(context.Background(), "x", []byte("{}"), nil)
	assert.NoError(t, err)
	assert.Empty(t, id)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Subscribe(ctx, "x", nil), context.Canceled)
	assert.NoError(t, m.Close())
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.Config{MQBackend: "kafka"})
	assert.Error(t, err)
}
