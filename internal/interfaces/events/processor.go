package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"riad/internal/observability"
)

type SubscriberFactory interface {
	Subscriber(handlerName string) (message.Subscriber, error)
}

func NewRouter(logger watermill.LoggerAdapter) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(observability.TracingMiddleware)
	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(CorrelationIDMiddleware)
	router.AddMiddleware(LoggingMiddleware)

	router.AddMiddleware(middleware.Retry{
		MaxRetries:      5,
		InitialInterval: time.Millisecond * 500,
		MaxInterval:     time.Second * 10,
		Multiplier:      2,
		Logger:          logger,
	}.Middleware)

	// skip marshalling errors before retrying
	router.AddMiddleware(SkipMarshallingErrorsMiddleware)

	return router, nil
}

func NewEventProcessor(
	router *message.Router,
	subscribers SubscriberFactory,
	logger watermill.LoggerAdapter,
) (*cqrs.EventProcessor, error) {
	return cqrs.NewEventProcessorWithConfig(
		router,
		cqrs.EventProcessorConfig{
			GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
				return topic(params.EventHandler.NewEvent(), params.EventName)
			},
			SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
				return subscribers.Subscriber(params.HandlerName)
			},
			Marshaler: marshaler,
			Logger:    logger,
		},
	)
}
