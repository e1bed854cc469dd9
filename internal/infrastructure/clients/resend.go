package clients

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"riad/internal/email"
)

type ResendClient struct {
	client *resend.Client
}

func NewResendClient(client *resend.Client) ResendClient {
	return ResendClient{
		client: client,
	}
}

func (c ResendClient) Send(ctx context.Context, msg email.Message) (string, error) {
	sent, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Bcc:     msg.Bcc,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("error sending email %q: %w", msg.Subject, err)
	}

	return sent.Id, nil
}
