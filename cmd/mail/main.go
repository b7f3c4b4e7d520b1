package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/kopimi-kafe/backend/internal/config"
	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/notify"
)

var subjects = map[string]string{
	domain.MailNewReview:           "Kopimi Kafe - New review",
	domain.MailNewCustomerMessage:  "Kopimi Kafe - New message for a barista",
	domain.MailNewLeaveRequest:     "Kopimi Kafe - New leave request",
	domain.MailLeaveRequestDecided: "Kopimi Kafe - Leave request updated",
}

// buildMessage turns a queued notification into an e-mail. Any error means
// the notification can never be sent and should not be retried.
func buildMessage(cfg *config.Config, mailMessage domain.MailMessage) (*mail.Msg, error) {
	subject, ok := subjects[mailMessage.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported mail type %q", mailMessage.Type)
	}

	m := mail.NewMsg()
	if err := m.From(cfg.Email.SMTP.Username); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(mailMessage.To); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}

	tmpl, err := template.ParseFiles(filepath.Join(cfg.Email.TemplateDir, mailMessage.Type+".html"))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	if err := m.SetBodyHTMLTemplate(tmpl, mailMessage.Data); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	m.Subject(subject)

	return m, nil
}

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return
	}

	/**********************************************
	 * mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("failed to create mail client", "error", err)
		return
	}
	defer client.Close()

	// make sure the SMTP server is reachable before consuming anything
	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(dialCtx); err != nil {
		logger.Error("failed to connect to mail server", "error", err)
		return
	}

	/**********************************************
	 * RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", "error", err)
		return
	}
	defer ch.Close()

	if err := notify.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
		logger.Error("failed to declare queue", "queue", cfg.RabbitMQ.Queue, "error", err)
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		cfg.RabbitMQ.Queue,
		"",    // consumer tag assigned by the broker
		false, // manual ack
		false, // exclusive
		false, // no-local, unsupported by RabbitMQ
		false, // no-wait
		nil,
	)
	if err != nil {
		logger.Error("failed to consume queue", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Warn("delivery channel closed")
					return
				}

				mailMessage := domain.MailMessage{}
				if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
					logger.Error("failed to decode notification", "error", err)
					_ = msg.Nack(false, false)
					continue
				}
				logger.Info("received notification", "type", mailMessage.Type, "to", mailMessage.To)

				m, err := buildMessage(cfg, mailMessage)
				if err != nil {
					logger.Error("dropping notification", "type", mailMessage.Type, "error", err)
					_ = msg.Nack(false, false)
					continue
				}

				if err := client.DialAndSend(m); err != nil {
					logger.Error("failed to send mail", "type", mailMessage.Type, "error", err)
					_ = msg.Nack(false, true) // requeue
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("waiting for notifications (CTRL+C to quit)", "queue", cfg.RabbitMQ.Queue)
	<-sigChan

	logger.Info("shutting down mail worker")
	cancel()
	wg.Wait()
	logger.Info("mail worker stopped")
}
