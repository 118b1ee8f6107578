package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-hrms/internal/events"
	"go-hrms/internal/mail"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEmployeeCreated sends the registration notice for each new hire.
// Email failure is logged and the message is still committed: notifications
// are fire-and-forget relative to core state.
func ConsumeEmployeeCreated(
	ctx context.Context,
	reader *kafkago.Reader,
	mailer mail.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_created")
	log.Info("employee created consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee created consumer stopped")
				return
			}
			log.Error("fetch employee created message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.Email != "" {
			err := mailer.Send(ctx, mail.Message{
				To:      event.Email,
				Subject: "Welcome to the team",
				HTMLBody: fmt.Sprintf(
					"<p>Hi %s,</p><p>Your employee account has been created. Your employee ID is <b>%s</b>.</p>",
					event.FullName, event.EmployeeNumber,
				),
			})
			if err != nil {
				log.Error("send registration notice failed",
					zap.String("employee_id", event.EmployeeID),
					zap.Error(err),
				)
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee created message failed", zap.Error(err))
		}
	}
}

// ConsumeSalaryPaid sends the payment confirmation for each paid salary.
func ConsumeSalaryPaid(
	ctx context.Context,
	reader *kafkago.Reader,
	mailer mail.Mailer,
	lookupEmail func(ctx context.Context, employeeID string) (string, error),
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.salary_paid")
	log.Info("salary paid consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("salary paid consumer stopped")
				return
			}
			log.Error("fetch salary paid message failed", zap.Error(err))
			continue
		}

		var event events.SalaryPaidEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode salary paid event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		email, err := lookupEmail(ctx, event.EmployeeID)
		if err != nil {
			log.Error("lookup employee email failed",
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if email != "" {
			err := mailer.Send(ctx, mail.Message{
				To:      email,
				Subject: fmt.Sprintf("Salary payment processed (%s)", event.InvoiceNo),
				HTMLBody: fmt.Sprintf(
					"<p>Your salary for %d/%d has been paid.</p><p>Invoice: %s, amount: %d</p>",
					event.Month, event.Year, event.InvoiceNo, event.Amount,
				),
			})
			if err != nil {
				log.Error("send payment confirmation failed",
					zap.String("salary_id", event.SalaryID),
					zap.Error(err),
				)
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit salary paid message failed", zap.Error(err))
		}
	}
}
