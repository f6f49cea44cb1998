package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/cafesim-io/cafedatasim/internal/models"
)

// KafkaSink publishes artifacts to Kafka. Table rows go one record per
// message to topic cafe_<folder>; documents and reports go whole to the same
// topic keyed by artifact name.
type KafkaSink struct {
	producer sarama.SyncProducer
}

func NewKafkaSink(brokerList string) (*KafkaSink, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokers := strings.Split(brokerList, ",")
	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}
	return &KafkaSink{producer: producer}, nil
}

func (k *KafkaSink) SaveTable(folder, name string, table *models.Table) (string, error) {
	topic := topicFor(folder)
	for _, record := range table.Records() {
		record["artifact"] = name
		payload, err := json.Marshal(record)
		if err != nil {
			return "", err
		}
		if err := k.send(topic, name, payload); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("kafka:%s/%s", topic, name), nil
}

func (k *KafkaSink) SaveJSON(folder, name string, v any) (string, error) {
	topic := topicFor(folder)
	payload, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if err := k.send(topic, name, payload); err != nil {
		return "", err
	}
	return fmt.Sprintf("kafka:%s/%s", topic, name), nil
}

func (k *KafkaSink) SaveText(folder, name, text string) (string, error) {
	topic := topicFor(folder)
	if err := k.send(topic, name, []byte(text)); err != nil {
		return "", err
	}
	return fmt.Sprintf("kafka:%s/%s", topic, name), nil
}

func (k *KafkaSink) send(topic, key string, payload []byte) error {
	if k.producer == nil {
		return fmt.Errorf("kafka producer is not initialized")
	}
	_, _, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	})
	return err
}

func (k *KafkaSink) Close() error {
	if k.producer != nil {
		return k.producer.Close()
	}
	return nil
}

func topicFor(folder string) string {
	return "cafe_" + folder
}
