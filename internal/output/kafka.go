package output

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/logger"
	"github.com/oliver-reborn/ITG-Commute-Time/internal/models"
	"go.uber.org/zap"
)

// KafkaOutput publishes each record as a JSON message keyed by run id.
// The record kind travels in the "kind" header.
type KafkaOutput struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaOutput(brokerList []string, topic string) (*KafkaOutput, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Retry.Backoff = 100 * time.Millisecond
	config.Producer.Return.Successes = true
	config.Net.DialTimeout = 30 * time.Second
	config.Net.ReadTimeout = 30 * time.Second
	config.Net.WriteTimeout = 30 * time.Second

	producer, err := sarama.NewSyncProducer(brokerList, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	logger.Info("kafka producer created", zap.Strings("brokers", brokerList), zap.String("topic", topic))
	return NewKafkaOutputWithProducer(producer, topic), nil
}

func NewKafkaOutputWithProducer(producer sarama.SyncProducer, topic string) *KafkaOutput {
	return &KafkaOutput{producer: producer, topic: topic}
}

func (k *KafkaOutput) WriteSimulation(_ context.Context, result models.SimulationResult) error {
	r := newRun()
	records := segmentRecords(r, result)
	msgs := make([]*sarama.ProducerMessage, 0, len(records)+1)
	for _, rec := range records {
		msg, err := k.message(KindSegments, r.ID, rec)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	msg, err := k.message(KindSimulations, r.ID, simulationRecord(r, result))
	if err != nil {
		return err
	}
	return k.send(append(msgs, msg))
}

func (k *KafkaOutput) WriteSweep(_ context.Context, series models.SweepSeries) error {
	r := newRun()
	records := sweepRecords(r, series)
	msgs := make([]*sarama.ProducerMessage, 0, len(records))
	for _, rec := range records {
		msg, err := k.message(KindSweep, r.ID, rec)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return k.send(msgs)
}

func (k *KafkaOutput) message(kind, runID string, record interface{}) (*sarama.ProducerMessage, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("error marshaling %s record: %w", kind, err)
	}
	return &sarama.ProducerMessage{
		Topic:   k.topic,
		Key:     sarama.StringEncoder(runID),
		Value:   sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{{Key: []byte("kind"), Value: []byte(kind)}},
	}, nil
}

func (k *KafkaOutput) send(msgs []*sarama.ProducerMessage) error {
	if k.producer == nil {
		return fmt.Errorf("kafka producer is closed")
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := k.producer.SendMessages(msgs); err != nil {
		return fmt.Errorf("failed to send messages to topic %s: %w", k.topic, err)
	}
	logger.Debug("published records", zap.String("topic", k.topic), zap.Int("count", len(msgs)))
	return nil
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}
