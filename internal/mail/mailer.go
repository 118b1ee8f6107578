package mail

import "context"

type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer delivers notification email. Sends are fire-and-forget relative to
// core state: a failed send never rolls anything back.
//
//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, msg Message) error {
	return nil
}

// NewNoopMailer is used when SMTP is not configured.
func NewNoopMailer() Mailer {
	return noopMailer{}
}
