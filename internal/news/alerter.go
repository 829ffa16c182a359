// internal/news/alerter.go
package news

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	commonaws "github.com/neeleshsethi/brand-intelligence-platform/internal/common/aws"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

const maxAlertArticles = 5

// Alerter announces newly stored high-priority articles over SNS and SES. Either channel
// may be absent.
type Alerter struct {
	sns      *commonaws.SNSClient
	ses      *commonaws.SESClient
	topicARN string
	from     string
	to       []string
}

// NewAlerter builds the AWS clients for the enabled channels.
func NewAlerter(ctx context.Context, cfg config.AlertsConfig) (*Alerter, error) {
	a := &Alerter{topicARN: cfg.SNSTopicARN, from: cfg.SESFrom, to: cfg.SESTo}

	if cfg.SNSTopicARN != "" {
		client, err := commonaws.NewSNSClient(ctx, cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		a.sns = client
	}
	if cfg.SESFrom != "" && len(cfg.SESTo) > 0 {
		client, err := commonaws.NewSESClient(ctx, cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("ses client: %w", err)
		}
		a.ses = client
	}
	return a, nil
}

// NewAlerterWith wires prebuilt clients; nil disables a channel.
func NewAlerterWith(snsClient *commonaws.SNSClient, sesClient *commonaws.SESClient, cfg config.AlertsConfig) *Alerter {
	return &Alerter{sns: snsClient, ses: sesClient, topicARN: cfg.SNSTopicARN, from: cfg.SESFrom, to: cfg.SESTo}
}

// NotifyHighPriority sends one digest for the high-priority articles in the batch.
func (a *Alerter) NotifyHighPriority(ctx context.Context, brand models.Brand, articles []models.NewsArticle) error {
	var high []models.NewsArticle
	for _, art := range articles {
		if Priority(art.ArticleType) == models.PriorityHigh {
			high = append(high, art)
		}
	}
	if len(high) == 0 {
		return nil
	}

	subject := fmt.Sprintf("%d high-priority news items for %s", len(high), brand.Name)
	body := alertBody(brand, high)

	var errs []error
	if a.sns != nil {
		_, err := a.sns.Publish(ctx, &sns.PublishInput{
			TopicArn: aws.String(a.topicARN),
			Subject:  aws.String(subject),
			Message:  aws.String(body),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("sns publish: %w", err))
		}
	}
	if a.ses != nil {
		_, err := a.ses.SendEmail(ctx, &ses.SendEmailInput{
			Destination: &sestypes.Destination{ToAddresses: a.to},
			Message: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: aws.String(body)},
				},
			},
			Source: aws.String(a.from),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("ses send: %w", err))
		}
	}
	return errors.Join(errs...)
}

func alertBody(brand models.Brand, articles []models.NewsArticle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New high-priority coverage for %s (%s):\n\n", brand.Name, brand.TherapeuticArea)
	for i, art := range articles {
		if i == maxAlertArticles {
			fmt.Fprintf(&sb, "... and %d more\n", len(articles)-maxAlertArticles)
			break
		}
		fmt.Fprintf(&sb, "- [%s] %s (%s)\n  %s\n", art.ArticleType, art.Title, art.Source, art.URL)
	}
	return sb.String()
}
