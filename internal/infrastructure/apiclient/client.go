// Package apiclient is the single choke point for calls to the reservation
// backend. It decorates requests with the session's bearer token, normalizes
// the {code, message, result} envelope, and recovers from unauthorized
// responses with at most one refresh-and-resend per request.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
	"github.com/hotelbooking/reservation-client/internal/pkg/metrics"
	"github.com/hotelbooking/reservation-client/pkg/logger"
)

// AuthPolicy selects how an unauthorized response is handled.
type AuthPolicy string

const (
	// PolicyLogout clears the session immediately.
	PolicyLogout AuthPolicy = "logout"
	// PolicyRefresh refreshes the credential once and resends the request.
	PolicyRefresh AuthPolicy = "refresh"
)

const (
	envelopeOK    = 0
	refreshKey    = "refresh"
	maxBodyBytes  = 4 << 20
	defaultAgent  = "reservation-client"
	requestIDHdr  = "X-Request-ID"
	authorization = "Authorization"
)

// Config fixes where and how the client talks to the backend.
type Config struct {
	BaseURL   string
	Timeout   time.Duration // 0 means no client-side timeout
	Policy    AuthPolicy
	UserAgent string
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client sends requests to the reservation backend. It never stores
// credentials itself; it reads them from the bound ports.Credentials.
type Client struct {
	baseURL string
	http    *http.Client
	headers http.Header
	policy  AuthPolicy
	log     zerolog.Logger

	credsMu   sync.RWMutex
	creds     ports.Credentials
	refreshes singleflight.Group
}

var (
	_ ports.AuthGateway      = (*Client)(nil)
	_ ports.BookingDirectory = (*Client)(nil)
	_ ports.RoomCatalog      = (*Client)(nil)
)

// New builds a Client. An unknown policy falls back to PolicyRefresh.
func New(cfg Config, log zerolog.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	agent := cfg.UserAgent
	if agent == "" {
		agent = defaultAgent
	}
	policy := cfg.Policy
	if policy != PolicyLogout {
		policy = PolicyRefresh
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", agent)

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		headers: headers,
		policy:  policy,
		log:     logger.Component(log, "apiclient"),
	}
}

// Bind attaches the session whose token decorates outgoing requests.
func (c *Client) Bind(creds ports.Credentials) {
	c.credsMu.Lock()
	c.creds = creds
	c.credsMu.Unlock()
}

func (c *Client) credentials() ports.Credentials {
	c.credsMu.RLock()
	defer c.credsMu.RUnlock()
	return c.creds
}

func (c *Client) token() string {
	if creds := c.credentials(); creds != nil {
		return creds.Token()
	}
	return ""
}

// call describes one backend request.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	// direct skips unauthorized interception; used by the auth endpoints
	// themselves so a refresh can never trigger another refresh.
	direct bool
}

func (cl call) op() string {
	return cl.method + " " + cl.path
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type response struct {
	status int
	env    *envelope // nil when the body was not an envelope
	err    error     // envelope decode failure
}

// do sends cl and resends it at most once after an unauthorized response.
func (c *Client) do(ctx context.Context, cl call) error {
	var payload []byte
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", cl.op(), err)
		}
		payload = b
	}

	used := c.token()
	resp, err := c.send(ctx, cl, payload, used)
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized && !cl.direct {
		if err := c.recoverAuth(ctx, used); err != nil {
			metrics.APIRequestsTotal.WithLabelValues(cl.method, "unauthorized").Inc()
			return fmt.Errorf("%s: %w", cl.op(), err)
		}

		resp, err = c.send(ctx, cl, payload, c.token())
		if err != nil {
			return err
		}
		if resp.status == http.StatusUnauthorized {
			c.forceLogout(ctx, "retry_unauthorized")
			metrics.APIRequestsTotal.WithLabelValues(cl.method, "unauthorized").Inc()
			return fmt.Errorf("%s: %w", cl.op(), domain.ErrSessionExpired)
		}
	}

	return c.classify(cl, resp)
}

// send performs a single HTTP exchange. Only transport failures are errors here.
func (c *Client) send(ctx context.Context, cl call, payload []byte, token string) (*response, error) {
	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, &domain.NetworkError{Op: cl.op(), Err: err}
	}
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	req.Header.Set(requestIDHdr, uuid.NewString())
	if token != "" {
		req.Header.Set(authorization, "Bearer "+token)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	metrics.APIRequestDuration.WithLabelValues(cl.method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(cl.method, "network_error").Inc()
		c.log.Warn().Err(err).Str("op", cl.op()).Msg("backend unreachable")
		return nil, &domain.NetworkError{Op: cl.op(), Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(cl.method, "network_error").Inc()
		return nil, &domain.NetworkError{Op: cl.op(), Err: fmt.Errorf("read body: %w", err)}
	}

	out := &response{status: res.StatusCode}
	if len(bytes.TrimSpace(raw)) > 0 {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			out.err = err
		} else {
			out.env = &env
		}
	}

	c.log.Debug().
		Str("op", cl.op()).
		Int("status", res.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend call")
	return out, nil
}

// classify turns a response into nil (success, result decoded into cl.out)
// or a classified failure.
func (c *Client) classify(cl call, resp *response) error {
	ok2xx := resp.status >= 200 && resp.status < 300

	if !ok2xx {
		appErr := &domain.ApplicationError{Status: resp.status, Code: -1}
		if resp.env != nil {
			appErr.Code = resp.env.Code
			appErr.Message = resp.env.Message
		}
		metrics.APIRequestsTotal.WithLabelValues(cl.method, "application_error").Inc()
		return appErr
	}

	if resp.err != nil {
		metrics.APIRequestsTotal.WithLabelValues(cl.method, "network_error").Inc()
		return &domain.NetworkError{Op: cl.op(), Err: fmt.Errorf("decode envelope: %w", resp.err)}
	}
	if resp.env == nil {
		// empty 2xx body: nothing to decode
		metrics.APIRequestsTotal.WithLabelValues(cl.method, "ok").Inc()
		return nil
	}
	if resp.env.Code != envelopeOK {
		metrics.APIRequestsTotal.WithLabelValues(cl.method, "application_error").Inc()
		return &domain.ApplicationError{Status: resp.status, Code: resp.env.Code, Message: resp.env.Message}
	}

	if cl.out != nil && len(resp.env.Result) > 0 && string(resp.env.Result) != "null" {
		if err := json.Unmarshal(resp.env.Result, cl.out); err != nil {
			metrics.APIRequestsTotal.WithLabelValues(cl.method, "network_error").Inc()
			return &domain.NetworkError{Op: cl.op(), Err: fmt.Errorf("decode result: %w", err)}
		}
	}
	metrics.APIRequestsTotal.WithLabelValues(cl.method, "ok").Inc()
	return nil
}

// recoverAuth applies the configured policy after an unauthorized response
// to a request that was sent with the token used. Concurrent callers share a
// single refresh; a caller whose token was already rotated skips straight to
// the resend.
func (c *Client) recoverAuth(ctx context.Context, used string) error {
	creds := c.credentials()
	if creds == nil {
		return domain.ErrSessionExpired
	}
	if c.policy == PolicyLogout {
		c.forceLogout(ctx, "policy")
		return domain.ErrSessionExpired
	}

	// the refresh outlives any single caller's cancellation since others may
	// be waiting on it
	refreshCtx := context.WithoutCancel(ctx)
	_, err, _ := c.refreshes.Do(refreshKey, func() (any, error) {
		if current := creds.Token(); current != "" && current != used {
			metrics.TokenRefreshTotal.WithLabelValues("skipped").Inc()
			return nil, nil
		}
		if err := creds.Refresh(refreshCtx); err != nil {
			metrics.TokenRefreshTotal.WithLabelValues("failed").Inc()
			metrics.ForcedLogoutsTotal.WithLabelValues("refresh_failed").Inc()
			c.log.Warn().Err(err).Msg("refresh failed, session cleared")
			return nil, err
		}
		metrics.TokenRefreshTotal.WithLabelValues("ok").Inc()
		c.log.Info().Msg("credential refreshed")
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
	}
	return nil
}

func (c *Client) forceLogout(ctx context.Context, reason string) {
	creds := c.credentials()
	if creds == nil {
		return
	}
	creds.Logout(ctx)
	metrics.ForcedLogoutsTotal.WithLabelValues(reason).Inc()
	c.log.Warn().Str("reason", reason).Msg("session cleared after unauthorized response")
}

// IsUnavailable reports whether err means the backend could not be reached.
func IsUnavailable(err error) bool {
	var netErr *domain.NetworkError
	return errors.As(err, &netErr)
}

// Ping reports whether the backend answers HTTP at all. Any status counts as
// reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return &domain.NetworkError{Op: "HEAD /", Err: err}
	}
	res, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: "HEAD /", Err: err}
	}
	_ = res.Body.Close()
	return nil
}
