package auth

import (
	"context"
	"fmt"
)

// Mailer delivers the notification emails the command handlers produce.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

// logMailer prints notifications instead of delivering them. It is the
// default collaborator so handlers work without an SMTP setup.
type logMailer struct {
	logger Logger
}

var _ Mailer = (*logMailer)(nil)

func (m logMailer) Send(_ context.Context, to []string, subject, htmlBody string) error {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	for _, recipient := range to {
		fmt.Printf("to: %s\n", recipient)
	}
	fmt.Printf("subject: %s\n", subject)
	fmt.Printf("body: %s\n", htmlBody)
	return nil
}

// sendAsync dispatches the email without blocking the request. Delivery
// failures are logged, never surfaced to the caller.
func sendAsync(mailer Mailer, logger Logger, to []string, subject, htmlBody string) {
	go func() {
		if err := mailer.Send(context.Background(), to, subject, htmlBody); err != nil {
			logger.Error("failed to send %q email to %v: %v", subject, to, err)
		}
	}()
}
