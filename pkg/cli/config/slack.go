package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the "memory ready" notification
type Slack struct {
	botToken string
	channel  string
	interval time.Duration
}

func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Category:    "Slack",
			Usage:       "Slack Bot User OAuth Token for ready notifications",
			Sources:     cli.EnvVars("MEMORYJAR_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Category:    "Slack",
			Usage:       "Channel ID that receives ready notifications",
			Sources:     cli.EnvVars("MEMORYJAR_SLACK_CHANNEL"),
			Destination: &s.channel,
		},
		&cli.DurationFlag{
			Name:        "notify-interval",
			Category:    "Slack",
			Usage:       "How often the daily lock is checked for expiry",
			Value:       time.Minute,
			Sources:     cli.EnvVars("MEMORYJAR_NOTIFY_INTERVAL"),
			Destination: &s.interval,
		},
	}
}

func (s *Slack) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("enabled", s.botToken != ""),
		slog.String("channel", s.channel),
		slog.Duration("interval", s.interval),
	}
}

// Interval returns the polling interval of the notifier
func (s *Slack) Interval() time.Duration {
	return s.interval
}

// Configure returns the notifier, or nil when no bot token is set
func (s *Slack) Configure() (interfaces.Notifier, error) {
	if s.botToken == "" {
		return nil, nil
	}
	if s.channel == "" {
		return nil, goerr.Wrap(ErrMissingRequired, "slack-channel is required when slack-bot-token is set")
	}

	client, err := slack.New(s.botToken, s.channel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create slack client")
	}
	return client, nil
}
