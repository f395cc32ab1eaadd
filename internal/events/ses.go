package events

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the subset of the SES client used here.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier mails a signup confirmation to the participant. Other event types are ignored.
type SESNotifier struct {
	client SESService
	from   string
}

func NewSESNotifier(client SESService, from string) *SESNotifier {
	return &SESNotifier{client: client, from: from}
}

func (n *SESNotifier) Publish(ctx context.Context, event RosterEvent) error {
	if event.Type != TypeSignedUp {
		return nil
	}

	subject := fmt.Sprintf("You're signed up for %s", event.Activity)
	body := fmt.Sprintf("Hello,\n\nYou are now registered for %s.\n\nSee you there!", event.Activity)

	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{event.Email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.from),
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", event.Email, err)
	}
	return nil
}
