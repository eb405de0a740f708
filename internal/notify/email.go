package notify

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MemberLookup resolves the member a notification is addressed to.
type MemberLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Member, error)
}

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Subject  string
}

// EmailNotifier mails notifications to the member's address on file.
type EmailNotifier struct {
	sender  Sender
	members MemberLookup
	from    string
	subject string
}

func NewEmailNotifier(cfg EmailConfig, members MemberLookup) *EmailNotifier {
	return NewEmailNotifierWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg, members)
}

func NewEmailNotifierWithSender(sender Sender, cfg EmailConfig, members MemberLookup) *EmailNotifier {
	subject := cfg.Subject
	if subject == "" {
		subject = "Your gym membership"
	}
	return &EmailNotifier{sender: sender, members: members, from: cfg.From, subject: subject}
}

func (n *EmailNotifier) Notify(ctx context.Context, memberID uuid.UUID, message string) error {
	member, err := n.members.Get(ctx, memberID)
	if err != nil {
		return fmt.Errorf("lookup member %s: %w", memberID, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetAddressHeader("To", member.Email, member.FullName())
	m.SetHeader("Subject", n.subject)
	m.SetBody("text/plain", message)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to member %s: %w", memberID, err)
	}
	return nil
}
