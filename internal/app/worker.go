package app

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-hrms/internal/employee"
	"go-hrms/internal/events"
	"go-hrms/internal/mail"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/messaging/kafka/consumer"
	"go-hrms/internal/messaging/kafka/producer"
)

const notificationGroupID = "hr-notifications"

// RunWorker starts the outbox publisher and the notification consumers
// and blocks until the context is cancelled.
func RunWorker(ctx context.Context, cfg Config, db *gorm.DB, writer *kafkago.Writer, logger *zap.Logger) {
	outboxRepo := kafka.NewOutboxRepository(db)
	employeeRepo := employee.NewRepository(db)
	mailer := mail.NewSMTPMailer(cfg.SMTP)

	go producer.ProcessOutboxEvents(ctx, outboxRepo, writer, logger, 0)

	employeeCreatedReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		GroupID: notificationGroupID,
		Topic:   events.EmployeeCreatedTopic,
	})
	salaryPaidReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		GroupID: notificationGroupID,
		Topic:   events.SalaryPaidTopic,
	})
	defer employeeCreatedReader.Close()
	defer salaryPaidReader.Close()

	lookupEmail := func(ctx context.Context, employeeID string) (string, error) {
		id, err := uuid.Parse(employeeID)
		if err != nil {
			return "", err
		}
		return employeeRepo.FindEmailByID(ctx, id)
	}

	go consumer.ConsumeEmployeeCreated(ctx, employeeCreatedReader, mailer, logger)
	go consumer.ConsumeSalaryPaid(ctx, salaryPaidReader, mailer, lookupEmail, logger)

	<-ctx.Done()
}
