package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/medbooking/ehr-schedule-reconciler/internal/config"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/in"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/out"
	"github.com/medbooking/ehr-schedule-reconciler/internal/utils"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AppointmentListener - слушатель событий записи на прием.
// Каждое событие инвалидирует кэш расписания того дня, которого оно касается.
type AppointmentListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.AvailabilityUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

// AppointmentEventMessage - событие записи: создание, перенос или отмена
type AppointmentEventMessage struct {
	ProviderID   string `json:"providerId"`
	DepartmentID string `json:"departmentId"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

func NewAppointmentListener(useCase in.AvailabilityUseCase, cfg *config.Config, logger out.LoggerPort) (*AppointmentListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &AppointmentListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger.WithModule("AppointmentListener"),
	}, nil
}

func (l *AppointmentListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	l.logger.Info("rabbitmq.queue.started", out.LogFields{
		"queue": queue.Name,
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					l.logger.Warn("rabbitmq.consumer.channel_closed", out.LogFields{
						"queue": queue.Name,
					})
					return
				}
				if err := l.processMessage(ctx, msg); err != nil {
					l.logger.Error("rabbitmq.process_message.failed", out.LogFields{
						"routingKey": msg.RoutingKey,
						"error":      err.Error(),
					})
					// Некорректное сообщение не вернется корректным, в очередь не возвращаем
					msg.Nack(false, false)
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *AppointmentListener) processMessage(ctx context.Context, msg amqp.Delivery) error {
	var event AppointmentEventMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		l.logger.Warn("appointment.message.malformed", out.LogFields{
			"body":  string(msg.Body),
			"error": err.Error(),
		})
		return err
	}

	date, err := utils.ParseDate(event.Date)
	if err != nil {
		l.logger.Warn("appointment.message.invalid_date", out.LogFields{
			"date":  event.Date,
			"error": err.Error(),
		})
		return err
	}

	l.logger.Info("appointment.message.received", out.LogFields{
		"providerId":   event.ProviderID,
		"departmentId": event.DepartmentID,
		"date":         event.Date,
		"status":       event.Status,
	})

	return l.useCase.InvalidateScheduleDay(ctx, event.ProviderID, event.DepartmentID, date)
}

func (l *AppointmentListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}
