package config

import (
	"context"
	"net/http"
	"time"

	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/pkg/circuitbreaker"
	"github.com/akeren/jobtracker-api/pkg/notify"
	"github.com/akeren/jobtracker-api/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
)

type NotifyConfig struct {
	SlackWebhookURL string
	SlackTemplate   string
	EmailFrom       string
	EmailTo         []string
	AWSRegion       string
	AWSAccessKey    string
	AWSSecretKey    string
	QueueSize       int
	Timeout         time.Duration
}

func NewNotifyConfig() *NotifyConfig {
	return &NotifyConfig{
		SlackWebhookURL: utils.GetEnvTrimmed("SLACK_WEBHOOK_URL"),
		SlackTemplate:   utils.GetEnvTrimmedOrDefault("SLACK_MESSAGE_TEMPLATE", notify.DefaultMessageTemplate),
		EmailFrom:       utils.GetEnvTrimmed("NOTIFY_EMAIL_FROM"),
		EmailTo:         utils.GetEnvList("NOTIFY_EMAIL_TO"),
		AWSRegion:       utils.GetEnvTrimmedOrDefault("AWS_REGION", "us-east-1"),
		AWSAccessKey:    utils.GetEnvTrimmed("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:    utils.GetEnvTrimmed("AWS_SECRET_ACCESS_KEY"),
		QueueSize:       utils.GetEnvPositiveInt("NOTIFY_QUEUE_SIZE", 100),
		Timeout:         utils.GetEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),
	}
}

func (nc *NotifyConfig) breakerConfig(name string, logger *log.Logger) *circuitbreaker.Config {
	cfg := circuitbreaker.DefaultConfig()
	cfg.Name = name
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		logger.Warn("Notification circuit breaker changed state", "sink", name, "from", from.String(), "to", to.String())
	}
	return cfg
}

// Sinks builds every configured notifier, each behind its own circuit breaker.
func (nc *NotifyConfig) Sinks(ctx context.Context, logger *log.Logger) (notify.Notifier, error) {
	template, err := notify.NewMessageTemplate(nc.SlackTemplate)
	if err != nil {
		logger.Error("Invalid SLACK_MESSAGE_TEMPLATE", "error", err)
		return nil, err
	}

	var sinks notify.Multi

	if nc.SlackWebhookURL != "" {
		client := &http.Client{Timeout: nc.Timeout}
		slack := notify.NewSlackNotifier(nc.SlackWebhookURL, client, template)
		sinks = append(sinks, notify.NewGuarded(slack, nc.breakerConfig(slack.Name(), logger)))
		logger.Info("Slack signup notifications enabled")
	}

	if nc.EmailFrom != "" && len(nc.EmailTo) > 0 {
		ses, err := notify.NewSESNotifierFromConfig(ctx, notify.SESConfig{
			Region:    nc.AWSRegion,
			From:      nc.EmailFrom,
			To:        nc.EmailTo,
			AccessKey: nc.AWSAccessKey,
			SecretKey: nc.AWSSecretKey,
		}, template)
		if err != nil {
			logger.Error("Failed to configure SES notifier", "error", err)
			return nil, err
		}
		sinks = append(sinks, notify.NewGuarded(ses, nc.breakerConfig(ses.Name(), logger)))
		logger.Info("Email signup notifications enabled", "recipients", len(nc.EmailTo))
	}

	switch len(sinks) {
	case 0:
		logger.Info("No signup notification sink configured")
		return notify.Noop{}, nil
	case 1:
		return sinks[0], nil
	default:
		return sinks, nil
	}
}

// NewNotificationDispatcher starts the background delivery worker and registers its metrics.
func NewNotificationDispatcher(ctx context.Context, logger *log.Logger, reg prometheus.Registerer) (*notify.Dispatcher, error) {
	nc := NewNotifyConfig()

	sink, err := nc.Sinks(ctx, logger)
	if err != nil {
		return nil, err
	}

	dispatcher := notify.NewDispatcher(sink, logger, notify.DispatcherConfig{
		QueueSize: nc.QueueSize,
		Timeout:   nc.Timeout,
	})

	if reg != nil {
		if err := dispatcher.Register(reg); err != nil {
			_ = dispatcher.Close(ctx)
			return nil, err
		}
	}

	return dispatcher, nil
}
