package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESAPI is the subset of the SES v2 client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SESConfig struct {
	Region    string
	From      string
	To        []string
	AccessKey string
	SecretKey string
}

type SESNotifier struct {
	client   SESAPI
	from     string
	to       []string
	template *MessageTemplate
}

func NewSESNotifier(client SESAPI, from string, to []string, template *MessageTemplate) *SESNotifier {
	return &SESNotifier{client: client, from: from, to: to, template: template}
}

// NewSESNotifierFromConfig uses static credentials when both keys are set and the default
// AWS credential chain otherwise.
func NewSESNotifierFromConfig(ctx context.Context, cfg SESConfig, template *MessageTemplate) (*SESNotifier, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}

	return NewSESNotifier(sesv2.NewFromConfig(awsCfg), cfg.From, cfg.To, template), nil
}

func (s *SESNotifier) Name() string {
	return "ses"
}

func (s *SESNotifier) Notify(ctx context.Context, signup Signup) error {
	text, err := s.template.Render(signup)
	if err != nil {
		return err
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: s.to},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String("New waitlist signup"), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(text), Charset: aws.String("UTF-8")},
				},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("category"), Value: aws.String("waitlist_signup")},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses: send email: %w", err)
	}
	return nil
}
