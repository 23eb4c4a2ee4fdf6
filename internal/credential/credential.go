// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package credential keeps a short-lived IAM token for the translation service fresh. The token
// is exchanged for a long-lived OAuth token at startup and then periodically in the background.
package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/oauth2"

	"github.com/wneessen/placefinder-bot/internal/http"
	"github.com/wneessen/placefinder-bot/internal/logger"
)

const (
	APIEndpoint = "https://iam.api.cloud.yandex.net/iam/v1/tokens"
	APITimeout  = time.Second * 10

	DefaultInterval = time.Hour * 4
	MinInterval     = time.Hour
	MaxInterval     = time.Hour * 4

	refreshJobName = "iam_token_refresh_job"
)

// ErrCredentialExpired is returned while no usable token is available.
var ErrCredentialExpired = errors.New("no valid IAM token available")

// Manager implements oauth2.TokenSource on top of the periodically refreshed IAM token.
type Manager struct {
	endpoint   string
	oauthToken string
	interval   time.Duration
	http       *http.Client
	logger     *logger.Logger

	token atomic.Pointer[oauth2.Token]

	// tokenMu guards token writes together with generation and closed. generation is bumped by
	// Shutdown so that refreshes started before it are discarded.
	tokenMu    sync.Mutex
	generation uint64
	closed     bool

	mu        sync.Mutex
	scheduler gocron.Scheduler
}

type tokenRequest struct {
	OAuthToken string `json:"yandexPassportOauthToken"`
}

type tokenResponse struct {
	IAMToken  string    `json:"iamToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

var _ oauth2.TokenSource = (*Manager)(nil)

// New returns a Manager that exchanges oauthToken at endpoint. An empty endpoint selects the
// public IAM API and a zero interval selects DefaultInterval.
func New(client *http.Client, log *logger.Logger, endpoint, oauthToken string, interval time.Duration) *Manager {
	if endpoint == "" {
		endpoint = APIEndpoint
	}
	if interval == 0 {
		interval = DefaultInterval
	}
	return &Manager{
		endpoint:   endpoint,
		oauthToken: oauthToken,
		interval:   interval,
		http:       client,
		logger:     log,
	}
}

// Init performs a first token refresh and starts the background refresh job. A failing refresh
// is logged but does not fail Init; only scheduler errors are returned.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduler != nil {
		return nil
	}

	m.tokenMu.Lock()
	m.closed = false
	m.tokenMu.Unlock()
	m.Refresh(ctx)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(m.interval),
		gocron.NewTask(m.Refresh),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(refreshJobName),
	)
	if err != nil {
		if shutdownErr := scheduler.Shutdown(); shutdownErr != nil {
			m.logger.Error("failed to shut down scheduler", logger.Err(shutdownErr))
		}
		return fmt.Errorf("failed to create %s: %w", refreshJobName, err)
	}
	scheduler.Start()
	m.scheduler = scheduler

	return nil
}

// Shutdown stops the background refresh and drops the cached token. Refreshes still in flight
// are discarded and no token is handed out until Init is called again.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokenMu.Lock()
	m.generation++
	m.closed = true
	m.token.Store(nil)
	m.tokenMu.Unlock()

	if m.scheduler == nil {
		return nil
	}
	scheduler := m.scheduler
	m.scheduler = nil
	if err := scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	return nil
}

// Token implements oauth2.TokenSource.
func (m *Manager) Token() (*oauth2.Token, error) {
	token := m.token.Load()
	if token == nil || token.AccessToken == "" {
		return nil, ErrCredentialExpired
	}
	if !token.Expiry.IsZero() && !time.Now().Before(token.Expiry) {
		return nil, ErrCredentialExpired
	}
	copied := *token
	return &copied, nil
}

// CurrentToken returns the bearer value of the current token.
func (m *Manager) CurrentToken() (string, error) {
	token, err := m.Token()
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// Refresh exchanges the OAuth token for a new IAM token. On failure the previous token is kept
// as long as it has not expired. The result is discarded if the Manager was shut down meanwhile.
func (m *Manager) Refresh(ctx context.Context) {
	m.tokenMu.Lock()
	generation := m.generation
	m.tokenMu.Unlock()

	token, err := m.exchange(ctx)

	m.tokenMu.Lock()
	defer m.tokenMu.Unlock()
	if m.closed || m.generation != generation {
		m.logger.Debug("manager was shut down, discarding IAM token refresh")
		return
	}
	if err != nil {
		previous := m.token.Load()
		if previous != nil && !previous.Expiry.IsZero() && time.Now().Before(previous.Expiry) {
			m.logger.Warn("failed to refresh IAM token, keeping previous token", logger.Err(err),
				slog.Time("expires_at", previous.Expiry))
			return
		}
		m.token.Store(nil)
		m.logger.Error("failed to refresh IAM token", logger.Err(err))
		return
	}

	m.token.Store(token)
	m.logger.Debug("IAM token refreshed", slog.Time("expires_at", token.Expiry))
}

func (m *Manager) exchange(ctx context.Context) (*oauth2.Token, error) {
	if m.oauthToken == "" {
		return nil, errors.New("no OAuth token configured")
	}

	res := new(tokenResponse)
	if _, err := m.http.PostJSON(ctx, m.endpoint, res, tokenRequest{OAuthToken: m.oauthToken}, nil,
		APITimeout); err != nil {
		return nil, fmt.Errorf("%w: failed to exchange OAuth token with IAM API: %w",
			http.ErrUpstreamUnavailable, err)
	}
	if res.IAMToken == "" {
		return nil, fmt.Errorf("%w: IAM API returned an empty token", http.ErrUpstreamUnavailable)
	}

	return &oauth2.Token{
		AccessToken: res.IAMToken,
		TokenType:   "Bearer",
		Expiry:      res.ExpiresAt,
	}, nil
}
