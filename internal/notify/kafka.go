package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/tbourn/sparrow-design-service/internal/config"
)

// messageWriter is the subset of *kafka.Writer used by KafkaNotifier.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes events as JSON messages keyed by design id, so all
// events of one design land on the same partition in order.
type KafkaNotifier struct {
	w     messageWriter
	topic string
}

// NewKafkaNotifier builds an asynchronous writer for cfg. Delivery errors are
// reported through the writer's completion callback.
func NewKafkaNotifier(cfg config.KafkaConfig) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(msgs []kafka.Message, err error) {
			if err == nil {
				return
			}
			deliveryFailures.WithLabelValues("kafka").Add(float64(len(msgs)))
			log.Warn().Err(err).Int("messages", len(msgs)).Str("topic", cfg.Topic).Msg("kafka delivery failed")
		},
	}
	return &KafkaNotifier{w: w, topic: cfg.Topic}
}

// Publish enqueues ev. With an async writer this returns immediately; a
// synchronous error here means the message was never enqueued.
func (k *KafkaNotifier) Publish(ctx context.Context, ev DesignEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		deliveryFailures.WithLabelValues("kafka").Inc()
		log.Warn().Err(err).Str("design_id", ev.DesignID).Msg("encode design event")
		return
	}
	msg := kafka.Message{
		Key:   []byte(ev.DesignID),
		Value: body,
		Time:  ev.At,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}
	// The request context may be cancelled as soon as the handler returns.
	if err := k.w.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		deliveryFailures.WithLabelValues("kafka").Inc()
		log.Warn().Err(err).Str("design_id", ev.DesignID).Str("topic", k.topic).Msg("publish design event")
	}
}

// Close flushes pending messages and releases the writer.
func (k *KafkaNotifier) Close() error {
	return k.w.Close()
}
