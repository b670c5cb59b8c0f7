package suivijob

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// emitTimeout is the max time allowed for a single async emit.
const emitTimeout = 5 * time.Second

// Emitter publishes job reports.
type Emitter interface {
	Emit(ctx context.Context, rapport Rapport) error
}

// KafkaProducer writes job reports to a Kafka topic using segmentio/kafka-go.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer returns a producer for the topic, or nil when brokers or
// topic are unconfigured so reports stay local.
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &KafkaProducer{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}}
}

// Emit serializes the report as JSON and writes it to the topic. Uses a short
// timeout so slow Kafka does not block the worker.
func (p *KafkaProducer) Emit(ctx context.Context, rapport Rapport) error {
	if p == nil || p.writer == nil {
		return nil
	}
	payload, err := json.Marshal(rapport)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, emitTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(rapport.JobType),
		Value: payload,
	}); err != nil {
		log.Printf("suivijob: kafka emit failed: %v", err)
		return err
	}
	return nil
}

// Close closes the Kafka writer. Safe to call multiple times and on nil.
func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// EmitAsync runs Emit in a goroutine so the worker loop is not blocked. The
// report is always logged locally; emitter may be nil when Kafka is not
// configured.
func EmitAsync(emitter Emitter, rapport Rapport) {
	log.Printf("suivijob: job=%s succes=%v traites=%d erreurs=%d duree=%s",
		rapport.JobType, rapport.Succes, rapport.NbTraites, rapport.NbErreurs, rapport.Duree())
	if emitter == nil {
		return
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := emitter.Emit(emitCtx, rapport); err != nil {
			log.Printf("suivijob: async emit failed: %v", err)
		}
	}()
}
