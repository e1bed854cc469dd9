package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"

	"riad/internal/entities"
)

var marshaler = unmarshalErrorMarshaler{
	CommandEventMarshaler: cqrs.JSONMarshaler{
		GenerateName: cqrs.StructName,
	},
}

// unmarshalErrorMarshaler marks payloads that fail to decode with
// ErrJsonUnmarshal, so SkipMarshallingErrorsMiddleware acks them instead of
// retrying forever.
type unmarshalErrorMarshaler struct {
	cqrs.CommandEventMarshaler
}

func (m unmarshalErrorMarshaler) Unmarshal(msg *message.Message, v any) error {
	if err := m.CommandEventMarshaler.Unmarshal(msg, v); err != nil {
		return fmt.Errorf("%w: %w", ErrJsonUnmarshal, err)
	}
	return nil
}

func topic(event any, eventName string) (string, error) {
	e, ok := event.(entities.Event)
	if !ok {
		return "", fmt.Errorf("invalid event type: %T doesn't implement entities.Event", event)
	}

	if e.IsInternal() {
		return "internal-events.svc-riad." + eventName, nil
	}
	return "events." + eventName, nil
}

func NewEventBus(
	pub message.Publisher,
	logger watermill.LoggerAdapter,
) (*cqrs.EventBus, error) {
	return cqrs.NewEventBusWithConfig(
		pub,
		cqrs.EventBusConfig{
			GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
				return topic(params.Event, params.EventName)
			},
			Marshaler: marshaler,
			Logger:    logger,
		},
	)
}
