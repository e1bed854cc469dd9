package event_publisher

import (
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const consumerGroupPrefix = "svc-riad."

// Transport is the pub/sub pair behind the event bus and processor.
// Redis streams when redis is configured, an in-process channel otherwise.
type Transport struct {
	Publisher message.Publisher

	newSubscriber func(handlerName string) (message.Subscriber, error)
	close         func() error
}

func (t Transport) Subscriber(handlerName string) (message.Subscriber, error) {
	return t.newSubscriber(handlerName)
}

func (t Transport) Close() error {
	if t.close == nil {
		return nil
	}
	return t.close()
}

func NewRedisTransport(rdb *redis.Client, logger watermill.LoggerAdapter) (Transport, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: rdb,
	}, logger)
	if err != nil {
		return Transport{}, err
	}

	return Transport{
		Publisher: CorrelationPublisherDecorator{Publisher: publisher},
		newSubscriber: func(handlerName string) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        rdb,
				ConsumerGroup: consumerGroupPrefix + handlerName,
			}, logger)
		},
		close: publisher.Close,
	}, nil
}

// NewGoChannelTransport keeps events inside the process. Events published
// while nothing is subscribed are dropped.
func NewGoChannelTransport(logger watermill.LoggerAdapter) Transport {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, logger)

	return Transport{
		Publisher: CorrelationPublisherDecorator{Publisher: pubSub},
		newSubscriber: func(string) (message.Subscriber, error) {
			return pubSub, nil
		},
		close: pubSub.Close,
	}
}

type CorrelationPublisherDecorator struct {
	message.Publisher
}

func (c CorrelationPublisherDecorator) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.Metadata.Get("correlation_id") != "" {
			continue
		}
		msg.Metadata.Set("correlation_id", log.CorrelationIDFromContext(msg.Context()))
	}
	return c.Publisher.Publish(topic, messages...)
}
