package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	topicReadAttempts = 3
)

// topicReadBackoff is a var so tests can shorten it
var topicReadBackoff = time.Second

// ensureTopic creates the topic when the broker reports no partitions for it
func ensureTopic(admin topicAdmin, topic kafka.TopicConfig, log *slog.Logger) error {
	if topic.NumPartitions <= 0 {
		topic.NumPartitions = 1
	}
	if topic.ReplicationFactor <= 0 {
		topic.ReplicationFactor = 1
	}

	var (
		partitions []kafka.Partition
		err        error
	)
	for attempt := 1; attempt <= topicReadAttempts; attempt++ {
		partitions, err = admin.ReadPartitions(topic.Topic)
		if err == nil {
			break
		}
		log.Warn("Failed to read topic partitions", "topic", topic.Topic, "attempt", attempt, "error", err)
		if attempt < topicReadAttempts {
			time.Sleep(topicReadBackoff)
		}
	}

	if len(partitions) > 0 {
		log.Debug("Kafka topic already exists", "topic", topic.Topic, "partitions", len(partitions))
		return nil
	}

	log.Info("Creating Kafka topic",
		"topic", topic.Topic,
		"partitions", topic.NumPartitions,
		"replication_factor", topic.ReplicationFactor,
	)
	if err := admin.CreateTopics(topic); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topic.Topic, err)
	}
	return nil
}
