// Package kafka provides a Kafka-backed event bus for multi-process
// deployments.
package kafka

import (
	"errors"
	"os"
	"strings"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	wkafka "github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"

	"github.com/dataloom/dataloom/pkg/eventbus"
)

const defaultConsumerGroup = "dataloom-workers"

// NewEventBus builds a watermill event bus on Kafka, reading brokers from
// KAFKA_BROKERS (comma-separated) and the consumer group from KAFKA_GROUP_ID.
func NewEventBus(logger watermill.LoggerAdapter) (eventbus.EventBus, error) {
	brokersStr := os.Getenv("KAFKA_BROKERS")

	brokers := strings.Split(brokersStr, ",")
	if len(brokers) == 0 || (len(brokers) == 1 && brokers[0] == "") {
		return nil, errors.New("no Kafka brokers configured")
	}

	groupID := os.Getenv("KAFKA_GROUP_ID")
	if groupID == "" {
		groupID = defaultConsumerGroup
	}

	subscriberConfig := wkafka.DefaultSaramaSubscriberConfig()
	subscriberConfig.Consumer.Offsets.Initial = sarama.OffsetOldest

	subscriber, err := wkafka.NewSubscriber(
		wkafka.SubscriberConfig{
			Brokers:               brokers,
			Unmarshaler:           wkafka.DefaultMarshaler{},
			OverwriteSaramaConfig: subscriberConfig,
			ConsumerGroup:         groupID,
		},
		logger,
	)
	if err != nil {
		return nil, err
	}

	publisherConfig := sarama.NewConfig()
	publisherConfig.Producer.Return.Successes = true

	publisher, err := wkafka.NewPublisher(
		wkafka.PublisherConfig{
			Brokers:               brokers,
			Marshaler:             wkafka.DefaultMarshaler{},
			OverwriteSaramaConfig: publisherConfig,
		},
		logger,
	)
	if err != nil {
		return nil, err
	}

	return eventbus.NewWatermillEventBus(publisher, subscriber), nil
}
