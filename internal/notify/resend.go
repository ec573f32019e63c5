package notify

import (
	"fmt"
	"html"

	"github.com/resend/resend-go/v2"
)

// ResendNotifier emails the staff inbox when a user asks for a human.
// Failures are the caller's to log; a lost email never breaks a turn.
type ResendNotifier struct {
	client      *resend.Client
	fromAddress string
	toAddress   string
}

func NewResendNotifier(apiKey, from, to string) *ResendNotifier {
	if apiKey == "" || to == "" {
		return nil
	}
	return &ResendNotifier{
		client:      resend.NewClient(apiKey),
		fromAddress: from,
		toAddress:   to,
	}
}

func (r *ResendNotifier) NotifyHandoff(phone, text string) error {
	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      []string{r.toAddress},
		Subject: fmt.Sprintf("Hand-off requested by %s", phone),
		Html: fmt.Sprintf(
			"<p>A WhatsApp user asked to talk to a person.</p>"+
				"<p><b>Phone:</b> %s</p><p><b>Message:</b> %s</p>",
			html.EscapeString(phone), html.EscapeString(text)),
	}

	_, err := r.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}
