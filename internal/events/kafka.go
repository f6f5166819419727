package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"speego-be/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher builds a publisher over the given brokers and topic.
// Brokers is a comma-separated list as configured in the environment.
func NewKafkaPublisher(brokers, topic string) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.L().Sugar().Errorf("kafka producer error: "+msg, args...)
		}),
		Compression: kafka.Snappy,
	}

	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to publish order event",
			zap.String("type", event.Type),
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
	}
	return err
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
