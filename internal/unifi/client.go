package unifi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	pkgerrors "github.com/pkg/errors"

	"unifictl/internal/config"
	"unifictl/internal/logging"
)

const (
	// requestTimeout bounds every controller request.
	requestTimeout = 30 * time.Second

	// defaultMaxAttempts is the total number of tries for a mutating call
	// that keeps hitting rate limiting.
	defaultMaxAttempts = 3

	// defaultBackoffBase: the delay before retry n is base^n.
	defaultBackoffBase = 2 * time.Second
)

// Client owns the authenticated session to the remote controller
type Client struct {
	rest    *resty.Client
	env     config.ControllerEnv
	session Session

	maxAttempts int
	backoffBase time.Duration
	sleep       func(time.Duration)

	logger logging.Logger
}

// NewClient creates a controller client from environment settings
func NewClient(env config.ControllerEnv, logger logging.Logger) *Client {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(env.BaseURL, "/")).
		SetTimeout(requestTimeout).
		SetHeader("Content-Type", "application/json")

	// The controller keeps the session in a cookie on versions that do
	// not hand out a token.
	jar, _ := cookiejar.New(nil)
	rest.SetCookieJar(jar)

	if !env.VerifySSL {
		rest.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return &Client{
		rest:        rest,
		env:         env,
		maxAttempts: defaultMaxAttempts,
		backoffBase: defaultBackoffBase,
		sleep:       time.Sleep,
		logger:      logger,
	}
}

// Session returns the current session state
func (c *Client) Session() Session {
	return c.session
}

// Login authenticates against the controller. A successful login replaces
// the session with a fresh value; it never mutates the old one.
func (c *Client) Login(ctx context.Context) error {
	payload := map[string]string{
		"username": c.env.Username,
		"password": c.env.Password,
	}

	resp, err := c.rest.R().SetContext(ctx).SetBody(payload).Post("/api/login")
	if err != nil {
		return c.classifyTransport("/api/login", err)
	}
	if resp.IsError() {
		return &AuthError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}

	c.session = sessionFromLogin(resp.Body())
	c.logger.Debug(fmt.Sprintf("Authenticated against %s (site %s)", c.env.BaseURL, c.env.Site))
	return nil
}

// sessionFromLogin extracts the session token from the login response,
// falling back to the cookie-session marker when the controller version
// does not return one
func sessionFromLogin(body []byte) Session {
	var envelope struct {
		Data []struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && envelope.Data[0].Token != "" {
		return Session{Token: envelope.Data[0].Token}
	}
	return Session{Token: cookieSessionToken}
}

// sitePath prefixes a path with the site-scoped API root
func (c *Client) sitePath(path string) string {
	return fmt.Sprintf("/api/s/%s%s", c.env.Site, path)
}

// get issues a GET and returns the response body, surfacing non-2xx as
// APIError
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return resp.Body(), nil
}

// mutate issues a POST or PUT with retry-on-429: up to maxAttempts tries
// with exponentially growing delay between them. Any other outcome is
// returned immediately.
func (c *Client) mutate(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var resp *resty.Response
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err = c.do(ctx, method, path, body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() != http.StatusTooManyRequests {
			break
		}
		if attempt < c.maxAttempts {
			delay := c.backoffDelay(attempt)
			c.logger.Warn(fmt.Sprintf("Controller rate limited %s %s, retrying in %s (attempt %d/%d)",
				method, path, delay, attempt, c.maxAttempts))
			c.sleep(delay)
		}
	}

	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return resp.Body(), nil
}

// backoffDelay computes base^attempt as a duration
func (c *Client) backoffDelay(attempt int) time.Duration {
	seconds := math.Pow(c.backoffBase.Seconds(), float64(attempt))
	return time.Duration(seconds * float64(time.Second))
}

// do executes one request, recovering exactly once from an expired session
// (401) by re-logging-in and retrying the same request
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*resty.Response, error) {
	resp, err := c.execute(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		c.logger.Debug("Session expired, re-authenticating")
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		resp, err = c.execute(ctx, method, path, body)
		if err != nil {
			return nil, err
		}
	}

	return resp, nil
}

func (c *Client) execute(ctx context.Context, method, path string, body interface{}) (*resty.Response, error) {
	req := c.rest.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if c.session.Token != "" && c.session.Token != cookieSessionToken {
		req.SetHeader("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, c.classifyTransport(path, err)
	}
	return resp, nil
}

// classifyTransport maps transport failures onto the client error taxonomy
func (c *Client) classifyTransport(path string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Path: path}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Path: path}
	}
	return &ConnectivityError{Path: path, Err: pkgerrors.WithStack(err)}
}
