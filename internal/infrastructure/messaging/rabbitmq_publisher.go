// Package messaging publica los eventos de asistencia hacia otros sistemas del campus.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/yeye/icms-api/internal/application/dto"
	"github.com/yeye/icms-api/internal/application/ports"
	"github.com/yeye/icms-api/pkg/logger"
)

var (
	_ ports.AttendancePublisher = (*RabbitPublisher)(nil)
	_ ports.AttendancePublisher = NopPublisher{}
)

const publishTimeout = 5 * time.Second

// RabbitPublisher envía CheckInEvent en JSON a una cola durable.
type RabbitPublisher struct {
	mu    sync.Mutex // amqp.Channel no admite publicaciones concurrentes
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   *logger.Logger
}

// NewRabbitPublisher conecta al broker y declara la cola.
func NewRabbitPublisher(url, queue string, log *logger.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp: conectar: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: abrir canal: %w", err)
	}
	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: declarar cola %s: %w", queue, err)
	}
	l := log.Component("amqp")
	l.Info().Str("queue", q.Name).Msg("cola de asistencia declarada")
	return &RabbitPublisher{conn: conn, ch: ch, queue: q.Name, log: l}, nil
}

// PublishCheckIn publica el evento como mensaje persistente.
func (p *RabbitPublisher) PublishCheckIn(ctx context.Context, event dto.CheckInEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("amqp: serializar evento: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.LogID,
		Type:         event.Type,
		Timestamp:    event.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp: publicar: %w", err)
	}
	p.log.Debug().Str("log_id", event.LogID).Msg("evento de asistencia publicado")
	return nil
}

// Close cierra canal y conexión.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NopPublisher descarta los eventos; se usa sin broker configurado.
type NopPublisher struct{}

func (NopPublisher) PublishCheckIn(context.Context, dto.CheckInEvent) error { return nil }
