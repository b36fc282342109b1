package mq

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/inkwell-cms/apiserver/types"
)

// AttrEventType is the message attribute carrying the event type, so
// consumers can filter without decoding the body.
const AttrEventType = "event-type"

// EventPublisher emits content events on a fixed channel. Failures are
// logged and otherwise ignored: a broker outage never fails a request.
type EventPublisher struct {
	mq      *MQ
	channel string
	logger  *zap.Logger
}

func NewEventPublisher(mq *MQ, channel string, logger *zap.Logger) *EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventPublisher{mq: mq, channel: channel, logger: logger}
}

// PublishContentEvent encodes event as JSON and publishes it.
func (p *EventPublisher) PublishContentEvent(ctx context.Context, event types.ContentEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("encode content event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	id, err := p.mq.Publish(ctx, p.channel, data, map[string]string{AttrEventType: event.Type})
	if err != nil {
		p.logger.Warn("publish content event",
			zap.String("type", event.Type),
			zap.String("content_id", event.ContentID),
			zap.String("channel", p.channel),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("content event published",
		zap.String("type", event.Type),
		zap.String("content_id", event.ContentID),
		zap.String("message_id", id),
	)
}

// DecodeContentEvent parses a message produced by PublishContentEvent.
func DecodeContentEvent(msg Message) (types.ContentEvent, error) {
	var event types.ContentEvent
	err := json.Unmarshal(msg.Data, &event)
	return event, err
}
