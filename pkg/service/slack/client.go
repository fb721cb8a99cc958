package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/slack-go/slack"
)

// Client posts jar notifications to one Slack channel
type Client struct {
	api     *slack.Client
	channel string
}

var _ interfaces.Notifier = &Client{}

// Option is a functional option for client configuration
type Option func(*options)

type options struct {
	apiURL string
}

// WithAPIURL overrides the Slack API base URL, mainly for tests
func WithAPIURL(url string) Option {
	return func(o *options) {
		o.apiURL = url
	}
}

// New creates a new Slack client with the provided bot token
func New(token, channel string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var apiOpts []slack.Option
	if o.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(o.apiURL))
	}

	return &Client{
		api:     slack.New(token, apiOpts...),
		channel: channel,
	}, nil
}

// Notify posts text to the configured channel
func (c *Client) Notify(ctx context.Context, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, c.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return goerr.Wrap(err, "failed to post slack message", goerr.V("channel", c.channel))
	}
	return nil
}
