/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package steam fetches a user's owned games from the Steam Web API.
//
// Requests are paced with a token bucket, retried with exponential backoff
// on HTTP 429 (honoring Retry-After), and guarded by a circuit breaker that
// opens after consecutive server-side failures.
package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/playfit/pkg/defaults"
	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/library"
)

const (
	ownedGamesPath = "/IPlayerService/GetOwnedGames/v0001/"

	breakerName = "steam-api"

	// breakerFailures is the number of consecutive failures that opens
	// the breaker.
	breakerFailures = 5
	breakerTimeout  = 30 * time.Second
)

// Config configures a Client. Zero values take the package defaults.
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	RetryBaseDelay    time.Duration
	RequestsPerSecond float64

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client calls the Steam Web API. It is safe for concurrent use.
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
	limiter        *rate.Limiter
	cb             *gobreaker.CircuitBreaker[[]library.OwnedGame]
}

var _ library.Source = (*Client)(nil)

// NewClient returns a Client for cfg. An API key is required.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, pferrors.New(pferrors.ErrCodeUnauthorized, "steam API key is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaults.SteamBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeInvalidRequest, "invalid steam base URL", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaults.HTTPClientTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = defaults.SteamRetryBaseDelay
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL:        baseURL,
		apiKey:         cfg.APIKey,
		client:         httpClient,
		maxRetries:     maxRetries,
		retryBaseDelay: baseDelay,
		limiter:        rate.NewLimiter(limit, 1),
		cb:             newBreaker(),
	}, nil
}

func newBreaker() *gobreaker.CircuitBreaker[[]library.OwnedGame] {
	breakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[[]library.OwnedGame](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		// caller mistakes do not say anything about the health of the API
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			switch pferrors.CodeOf(err) {
			case pferrors.ErrCodeUnavailable, pferrors.ErrCodeTimeout, pferrors.ErrCodeRateLimitExceeded:
				return false
			default:
				return true
			}
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("steam circuit breaker state change",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			breakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int        `json:"game_count"`
		Games     []gameJSON `json:"games"`
	} `json:"response"`
}

type gameJSON struct {
	AppID           int64    `json:"appid"`
	Name            *string  `json:"name"`
	PlaytimeForever *float64 `json:"playtime_forever"`
}

// OwnedGames returns the games owned by steamID sorted by name, with play
// time converted from minutes to hours.
func (c *Client) OwnedGames(ctx context.Context, steamID string) ([]library.OwnedGame, error) {
	steamID = strings.TrimSpace(steamID)
	if steamID == "" {
		return nil, pferrors.New(pferrors.ErrCodeInvalidRequest, "steam ID is required")
	}

	start := time.Now()
	games, err := c.cb.Execute(func() ([]library.OwnedGame, error) {
		return c.fetchOwnedGames(ctx, steamID)
	})
	fetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			fetchTotal.WithLabelValues("rejected").Inc()
			return nil, pferrors.Wrap(pferrors.ErrCodeUnavailable, "steam API circuit breaker is open", err)
		}
		fetchTotal.WithLabelValues(strings.ToLower(string(pferrors.CodeOf(err)))).Inc()
		return nil, err
	}

	fetchTotal.WithLabelValues("success").Inc()
	return games, nil
}

func (c *Client) fetchOwnedGames(ctx context.Context, steamID string) ([]library.OwnedGame, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamid", steamID)
	params.Set("format", "json")
	params.Set("include_appinfo", "true")
	reqURL := c.baseURL + ownedGamesPath + "?" + params.Encode()

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var body ownedGamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeDataFormat, "failed to decode steam response", err)
	}

	games := make([]library.OwnedGame, 0, len(body.Response.Games))
	for i, g := range body.Response.Games {
		if g.Name == nil || g.PlaytimeForever == nil {
			return nil, pferrors.NewWithContext(pferrors.ErrCodeDataFormat, "steam game record is missing name or playtime",
				map[string]any{"index": i, "appid": g.AppID})
		}
		games = append(games, library.OwnedGame{
			Name:        *g.Name,
			HoursPlayed: *g.PlaytimeForever / 60,
		})
	}
	if err := library.Validate(games); err != nil {
		return nil, err
	}
	library.SortByName(games)

	if len(games) == 0 {
		slog.Warn("steam returned no games, the profile may be private", slog.String("steam_id", steamID))
	}
	slog.Debug("fetched steam library",
		slog.String("steam_id", steamID),
		slog.Int("games", len(games)),
		slog.Int("game_count", body.Response.GameCount))
	return games, nil
}

// doRequestWithRateLimit performs a GET, retrying HTTP 429 responses with
// exponential backoff (base, 2*base, 4*base, ...) or the server's
// Retry-After when present.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, transportError(ctx, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, pferrors.Wrap(pferrors.ErrCodeInternal, "failed to create steam request", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, transportError(ctx, redact(err, c.apiKey))
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		if attempt >= c.maxRetries {
			return nil, pferrors.NewWithContext(pferrors.ErrCodeRateLimitExceeded,
				"steam rate limit exceeded", map[string]any{"retries": c.maxRetries})
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(strings.TrimSpace(ra)); err == nil && secs >= 0 {
				delay = time.Duration(secs) * time.Second
			}
		}
		slog.Debug("steam rate limited, backing off",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, transportError(ctx, ctx.Err())
		}
	}
}

func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return pferrors.Wrap(pferrors.ErrCodeTimeout, "steam request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return pferrors.Wrap(pferrors.ErrCodeUnavailable, "steam request failed", err)
}

// redact removes the API key from errors that echo the request URL.
func redact(err error, key string) error {
	var ue *url.Error
	if key == "" || !errors.As(err, &ue) {
		return err
	}
	return fmt.Errorf("%s %q: %w", ue.Op, strings.ReplaceAll(ue.URL, key, "REDACTED"), ue.Err)
}

func statusError(resp *http.Response) error {
	body := readBodyForError(resp.Body)
	ctx := map[string]any{"status": resp.StatusCode, "body": string(body)}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pferrors.NewWithContext(pferrors.ErrCodeUnauthorized, "steam rejected the API key", ctx)
	case resp.StatusCode == http.StatusNotFound:
		return pferrors.NewWithContext(pferrors.ErrCodeNotFound, "steam endpoint not found", ctx)
	case resp.StatusCode >= http.StatusInternalServerError:
		return pferrors.NewWithContext(pferrors.ErrCodeUnavailable, "steam API unavailable", ctx)
	default:
		return pferrors.NewWithContext(pferrors.ErrCodeInvalidRequest, "steam request rejected", ctx)
	}
}

// readBodyForError reads at most MaxErrorBodyBytes of r.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, defaults.MaxErrorBodyBytes))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == defaults.MaxErrorBodyBytes {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}
