package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tu-usuario/master-console/internal/application/event"
	"github.com/tu-usuario/master-console/pkg/config"
)

// Asegura que ambos publishers implementan el puerto.
var (
	_ event.Publisher = (*KafkaPublisher)(nil)
	_ event.Publisher = (*NopPublisher)(nil)
)

// KafkaPublisher publica eventos de ciclo de vida en un topic Kafka.
// La clave del mensaje es el tenant id, así todos los eventos de un mismo
// tenant caen en la misma partición y conservan el orden.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher construye el publisher con los brokers configurados.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.BrokerList()...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish serializa el evento como JSON y lo escribe en el topic.
func (p *KafkaPublisher) Publish(ctx context.Context, ev event.Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.TenantID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar %s: %w", ev.Type, err)
	}
	return nil
}

// Close cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher descarta los eventos. Se usa cuando no hay brokers configurados
// (instalaciones sin Kafka) para que los casos de uso no tengan que nil-checkear.
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(context.Context, event.Event) error { return nil }
