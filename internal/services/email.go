package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"sync"

	"portfolio/internal/config"
	"portfolio/internal/logger"
	"portfolio/internal/metrics"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

var ErrMailNotConfigured = errors.New("SMTP is not configured")

// sendMailFunc: smtp.SendMail, подменяется в тестах.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailService struct {
	auth       smtp.Auth
	from       string
	host       string
	port       string
	configured bool
	send       sendMailFunc
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		auth:       smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
		from:       cfg.MailFrom,
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		configured: cfg.SMTPConfigured(),
		send:       smtp.SendMail,
	}
}

type Mail struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
	IsHTML  bool
	Kind    string // для метрик: reset|contact_auto_reply|contact_owner
}

func (s *EmailService) buildMessage(m Mail) []byte {
	contentType := "text/plain"
	if m.IsHTML {
		contentType = "text/html"
	}

	var b strings.Builder
	b.WriteString("From: " + s.from + "\r\n")
	b.WriteString("To: " + strings.Join(m.To, ", ") + "\r\n")
	if m.ReplyTo != "" {
		b.WriteString("Reply-To: " + m.ReplyTo + "\r\n")
	}
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", m.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: " + contentType + "; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(m.Body)
	return []byte(b.String())
}

func (s *EmailService) Send(m Mail) error {
	kind := m.Kind
	if kind == "" {
		kind = "other"
	}
	if !s.configured {
		metrics.EmailsSentTotal.WithLabelValues(kind, "skipped").Inc()
		return ErrMailNotConfigured
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, s.auth, s.from, m.To, s.buildMessage(m)); err != nil {
		metrics.EmailsSentTotal.WithLabelValues(kind, "error").Inc()
		return err
	}
	metrics.EmailsSentTotal.WithLabelValues(kind, "ok").Inc()
	return nil
}

func (s *EmailService) SendPasswordReset(_ context.Context, to, resetLink string) error {
	return s.Send(Mail{
		To:      []string{to},
		Subject: "Password Reset Request",
		Body:    helpers.BuildPasswordResetHTML(resetLink),
		IsHTML:  true,
		Kind:    "reset",
	})
}

// MailQueue: буферизированная очередь писем с воркерами.
type MailQueue struct {
	jobs   chan Mail
	sender interface{ Send(Mail) error }
	wg     sync.WaitGroup
	once   sync.Once
}

func NewMailQueue(sender interface{ Send(Mail) error }, size int) *MailQueue {
	return &MailQueue{jobs: make(chan Mail, size), sender: sender}
}

// Start запускает n воркеров.
func (q *MailQueue) Start(n int) {
	for i := 0; i < n; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for m := range q.jobs {
				if err := q.sender.Send(m); err != nil {
					logger.Log.Error("Не удалось отправить письмо", zap.String("kind", m.Kind), zap.Strings("to", m.To), zap.Error(err))
				}
			}
		}()
	}
}

// Enqueue не блокирует: при переполненной очереди письмо отбрасывается.
func (q *MailQueue) Enqueue(m Mail) bool {
	select {
	case q.jobs <- m:
		return true
	default:
		logger.Log.Warn("Очередь писем переполнена, письмо отброшено", zap.String("kind", m.Kind))
		return false
	}
}

// Close дожидается отправки уже поставленных писем.
func (q *MailQueue) Close() {
	q.once.Do(func() { close(q.jobs) })
	q.wg.Wait()
}
