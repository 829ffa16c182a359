// internal/news/alerter_test.go
package news

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonaws "github.com/neeleshsethi/brand-intelligence-platform/internal/common/aws"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, f.err
}

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	return &ses.SendEmailOutput{MessageId: aws.String("e-1")}, f.err
}

var alertCfg = config.AlertsConfig{
	Enabled:     true,
	SNSTopicARN: "arn:aws:sns:us-east-1:123456789012:brand-news",
	SESFrom:     "alerts@example.com",
	SESTo:       []string{"brand-team@example.com"},
}

func TestAlerter_NotifyHighPriority(t *testing.T) {
	snsAPI, sesAPI := &fakeSNS{}, &fakeSES{}
	a := NewAlerterWith(commonaws.NewSNSClientWith(snsAPI), commonaws.NewSESClientWith(sesAPI), alertCfg)

	brand := models.Brand{Name: "Eliquis", TherapeuticArea: "Anticoagulant"}
	err := a.NotifyHighPriority(context.Background(), brand, []models.NewsArticle{
		{Title: "Eliquis label", URL: "https://a", Source: "FiercePharma", ArticleType: models.ArticleBrandSpecific},
		{Title: "Market", URL: "https://b", ArticleType: models.ArticleMarketWide},
		{Title: "Xarelto price cut", URL: "https://c", ArticleType: models.ArticleCompetitor},
	})

	require.NoError(t, err)
	require.Len(t, snsAPI.inputs, 1)
	assert.Equal(t, alertCfg.SNSTopicARN, aws.ToString(snsAPI.inputs[0].TopicArn))
	assert.Equal(t, "2 high-priority news items for Eliquis", aws.ToString(snsAPI.inputs[0].Subject))
	assert.Contains(t, aws.ToString(snsAPI.inputs[0].Message), "Xarelto price cut")
	assert.NotContains(t, aws.ToString(snsAPI.inputs[0].Message), "https://b")

	require.Len(t, sesAPI.inputs, 1)
	assert.Equal(t, alertCfg.SESTo, sesAPI.inputs[0].Destination.ToAddresses)
	assert.Equal(t, "alerts@example.com", aws.ToString(sesAPI.inputs[0].Source))
}

func TestAlerter_NothingHighPriority(t *testing.T) {
	snsAPI := &fakeSNS{}
	a := NewAlerterWith(commonaws.NewSNSClientWith(snsAPI), nil, alertCfg)

	err := a.NotifyHighPriority(context.Background(), models.Brand{Name: "Eliquis"}, []models.NewsArticle{
		{ArticleType: models.ArticleTherapeuticArea},
	})

	require.NoError(t, err)
	assert.Empty(t, snsAPI.inputs)
}

func TestAlerter_JoinsChannelErrors(t *testing.T) {
	snsAPI := &fakeSNS{err: errors.New("throttled")}
	sesAPI := &fakeSES{err: errors.New("unverified sender")}
	a := NewAlerterWith(commonaws.NewSNSClientWith(snsAPI), commonaws.NewSESClientWith(sesAPI), alertCfg)

	err := a.NotifyHighPriority(context.Background(), models.Brand{Name: "Eliquis"}, []models.NewsArticle{
		{ArticleType: models.ArticleBrandSpecific},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	assert.Contains(t, err.Error(), "unverified sender")
}

func TestAlertBody_Truncates(t *testing.T) {
	articles := make([]models.NewsArticle, 7)
	for i := range articles {
		articles[i] = models.NewsArticle{Title: "t", ArticleType: models.ArticleBrandSpecific}
	}

	body := alertBody(models.Brand{Name: "Paxlovid", TherapeuticArea: "COVID-19 Antiviral"}, articles)

	assert.Contains(t, body, "... and 2 more")
}
