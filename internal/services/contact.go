package services

import (
	"context"
	"fmt"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

type MailSender interface {
	Send(m Mail) error
}

type MailEnqueuer interface {
	Enqueue(m Mail) bool
}

type ContactService struct {
	mailer       MailSender
	queue        MailEnqueuer
	contactEmail string
	ownerName    string
}

func NewContactService(mailer MailSender, queue MailEnqueuer, contactEmail, ownerName string) *ContactService {
	return &ContactService{mailer: mailer, queue: queue, contactEmail: contactEmail, ownerName: ownerName}
}

// Submit отправляет автоответ сразу, а уведомление владельцу ставит в очередь.
// false: автоответ не ушёл, но сообщение принято.
func (s *ContactService) Submit(ctx context.Context, req *models.ContactRequest) bool {
	log := logger.WithCtx(ctx)

	autoReplySent := true
	err := s.mailer.Send(Mail{
		To:      []string{req.Email},
		Subject: fmt.Sprintf("Re: %s - Thank you for contacting me!", req.Subject),
		Body:    helpers.BuildContactAutoReplyHTML(req.Name, req.Subject, s.ownerName),
		IsHTML:  true,
		Kind:    "contact_auto_reply",
	})
	if err != nil {
		autoReplySent = false
		log.Warn("Автоответ на сообщение не отправлен", zap.String("email", req.Email), zap.Error(err))
	}

	if s.contactEmail != "" {
		s.queue.Enqueue(Mail{
			To:      []string{s.contactEmail},
			ReplyTo: req.Email,
			Subject: "Portfolio Contact: " + req.Subject,
			Body:    helpers.BuildContactNotificationHTML(req.Name, req.Email, req.Subject, req.Message),
			IsHTML:  true,
			Kind:    "contact_owner",
		})
	} else {
		log.Warn("CONTACT_EMAIL не задан, уведомление владельцу не отправлено")
	}

	log.Info("Получено сообщение с формы контактов", zap.String("email", req.Email), zap.Bool("auto_reply", autoReplySent))
	return autoReplySent
}
