// Package slack implements the Slack Web API client for SlackFit.
// It covers the four endpoints the bot needs: posting messages, resolving
// display names, identifying the bot account, and fetching a thread root
// for check-in validation.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/vigetlabs/slackfit/pkg/circuitbreaker"
	"github.com/vigetlabs/slackfit/pkg/retry"
)

// Client errors.
var (
	// ErrMissingToken is returned when no bot token is configured.
	ErrMissingToken = errors.New("slack: bot token is required")

	// ErrUserNotFound is returned when users.info cannot resolve a user.
	ErrUserNotFound = errors.New("slack: user not found")

	// ErrThreadNotFound is returned when a thread root cannot be fetched.
	ErrThreadNotFound = errors.New("slack: thread not found")
)

// APIError is a Slack Web API level failure (ok=false).
type APIError struct {
	Method string
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack: %s failed: %s", e.Method, e.Code)
}

// ClientConfig contains configuration for the Slack client.
type ClientConfig struct {
	// Token is the bot token (xoxb-...).
	Token string

	// BaseURL is the Slack Web API base URL (default: https://slack.com/api).
	BaseURL string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// RetryAttempts is the number of attempts for failed requests.
	RetryAttempts int

	// RetryDelay is the initial delay between retries.
	RetryDelay time.Duration

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(token string) ClientConfig {
	return ClientConfig{
		Token:         token,
		BaseURL:       "https://slack.com/api",
		Timeout:       30 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    500 * time.Millisecond,
	}
}

// Client is a Slack Web API client.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	breaker    *circuitbreaker.CircuitBreaker

	// The bot's own user id is fetched once via auth.test and reused for
	// thread-root validation on every reply. InvalidateBotUserID drops it
	// when the installed credential changes.
	botMu     sync.Mutex
	botUserID string
}

// NewClient creates a Slack client. A missing token is a configuration
// fault, reported immediately rather than failing on first use.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Token == "" {
		return nil, ErrMissingToken
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://slack.com/api"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 500 * time.Millisecond
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     config.Logger,
	}
	onStateChange := func(name string, from, to circuitbreaker.State) {
		c.logger.Warn("slack api circuit state changed",
			"breaker", name,
			"from", from.String(),
			"to", to.String(),
		)
	}
	// API-level rejections mean the request was wrong, not that Slack is
	// down; only transport-level failures trip the circuit.
	isOutage := func(err error) bool {
		return !retry.IsPermanent(err)
	}
	c.breaker = circuitbreaker.SlackAPIBreaker(onStateChange, isOutage)
	return c, nil
}

// PostMessage posts plain text to a channel. Failure propagates to the
// caller; the bot never silently drops an outbound post.
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	var resp postMessageResponse
	err := c.callJSON(ctx, "chat.postMessage", postMessageRequest{
		Channel: channel,
		Text:    text,
	}, &resp)
	if err != nil {
		return err
	}

	c.logger.Debug("message posted", "channel", channel, "ts", resp.TS)
	return nil
}

// BotUserID returns the bot account's user id, fetching and caching it on
// first use.
func (c *Client) BotUserID(ctx context.Context) (string, error) {
	c.botMu.Lock()
	defer c.botMu.Unlock()

	if c.botUserID != "" {
		return c.botUserID, nil
	}

	var resp authTestResponse
	if err := c.callJSON(ctx, "auth.test", struct{}{}, &resp); err != nil {
		return "", err
	}
	if resp.UserID == "" {
		return "", &APIError{Method: "auth.test", Code: "missing_user_id"}
	}

	c.botUserID = resp.UserID
	c.logger.Info("bot user id cached", "bot_user_id", resp.UserID)
	return c.botUserID, nil
}

// InvalidateBotUserID drops the cached bot user id so the next call
// re-fetches it. Needed when the bot token is rotated to a different app
// account at runtime.
func (c *Client) InvalidateBotUserID() {
	c.botMu.Lock()
	defer c.botMu.Unlock()
	c.botUserID = ""
}

// ResolveDisplayName resolves a user id to a human name, preferring the
// profile real name. It satisfies leaderboard.NameResolver; callers fall
// back to the raw id when it errors.
func (c *Client) ResolveDisplayName(ctx context.Context, userID string) (string, error) {
	var resp userInfoResponse
	err := c.callForm(ctx, "users.info", url.Values{"user": {userID}}, &resp)
	if err != nil {
		return "", err
	}

	switch {
	case resp.User.RealName != "":
		return resp.User.RealName, nil
	case resp.User.Profile.RealName != "":
		return resp.User.Profile.RealName, nil
	case resp.User.Name != "":
		return resp.User.Name, nil
	}
	return "", ErrUserNotFound
}

// ThreadRoot fetches the root message of a thread. Used to verify that a
// reply's thread was started by the bot before it counts as a check-in.
func (c *Client) ThreadRoot(ctx context.Context, channel, threadTS string) (*ThreadRootMessage, error) {
	var resp repliesResponse
	err := c.callForm(ctx, "conversations.replies", url.Values{
		"channel": {channel},
		"ts":      {threadTS},
		"limit":   {"1"},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Messages) == 0 {
		return nil, ErrThreadNotFound
	}

	root := resp.Messages[0]
	return &ThreadRootMessage{
		AuthorID: root.User,
		TS:       root.TS,
	}, nil
}

// ThreadRootMessage is the root message of a thread.
type ThreadRootMessage struct {
	AuthorID string
	TS       string
}

// callJSON performs a POST with a JSON body.
func (c *Client) callJSON(ctx context.Context, method string, body any, out interface{ ok() (bool, string) }) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("slack: marshal %s request: %w", method, err)
	}
	return c.call(ctx, method, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/"+method, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		return req, nil
	}, out)
}

// callForm performs a POST with form-encoded parameters.
func (c *Client) callForm(ctx context.Context, method string, params url.Values, out interface{ ok() (bool, string) }) error {
	return c.call(ctx, method, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/"+method, strings.NewReader(params.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, out)
}

// call executes one Web API request with retries behind a shared circuit
// breaker. Transport failures and 5xx responses are retried with backoff;
// API-level rejections (ok=false) are permanent since replaying them cannot
// change the answer, and they do not count against the breaker. While the
// circuit is open, calls fail fast with circuitbreaker.ErrCircuitOpen.
func (c *Client) call(ctx context.Context, method string, newRequest func() (*http.Request, error), out interface{ ok() (bool, string) }) error {
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.callOnce(ctx, method, newRequest, out)
	})
}

func (c *Client) callOnce(ctx context.Context, method string, newRequest func() (*http.Request, error), out interface{ ok() (bool, string) }) error {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = c.config.RetryAttempts
	cfg.InitialDelay = c.config.RetryDelay
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		c.logger.Warn("slack api retry",
			"method", method,
			"attempt", attempt,
			"delay", delay.String(),
			"error", err,
		)
	}

	return retry.Do(ctx, cfg, func(ctx context.Context) error {
		req, err := newRequest()
		if err != nil {
			return retry.Permanent(fmt.Errorf("slack: build %s request: %w", method, err))
		}
		req.Header.Set("Authorization", "Bearer "+c.config.Token)

		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("slack: %s: %w", method, err)
		}
		defer httpResp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
		if err != nil {
			return fmt.Errorf("slack: read %s response: %w", method, err)
		}

		if httpResp.StatusCode >= 500 || httpResp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("slack: %s returned status %d", method, httpResp.StatusCode)
		}
		if httpResp.StatusCode != http.StatusOK {
			return retry.Permanent(fmt.Errorf("slack: %s returned status %d", method, httpResp.StatusCode))
		}

		if err := json.Unmarshal(data, out); err != nil {
			return retry.Permanent(fmt.Errorf("slack: parse %s response: %w", method, err))
		}
		if ok, code := out.ok(); !ok {
			return retry.Permanent(&APIError{Method: method, Code: code})
		}
		return nil
	})
}

// ok lets call inspect the shared response envelope.
func (r *apiResponse) ok() (bool, string) {
	return r.OK, r.Error
}
