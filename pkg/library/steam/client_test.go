/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/library"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		BaseURL:        srv.URL,
		APIKey:         "secret-key",
		MaxRetries:     2,
		RetryBaseDelay: time.Millisecond,
		Timeout:        5 * time.Second,
	})
	require.NoError(t, err)
	return c, &hits
}

func TestOwnedGames_Success(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ownedGamesPath, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "secret-key", q.Get("key"))
		assert.Equal(t, "76561198000000000", q.Get("steamid"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "true", q.Get("include_appinfo"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":{"game_count":3,"games":[
			{"appid":620,"name":"Portal 2","playtime_forever":90},
			{"appid":400,"name":"Portal","playtime_forever":30},
			{"appid":220,"name":"Half-Life 2","playtime_forever":0}
		]}}`))
	})

	games, err := c.OwnedGames(context.Background(), "76561198000000000")
	require.NoError(t, err)
	assert.Equal(t, []library.OwnedGame{
		{Name: "Half-Life 2", HoursPlayed: 0},
		{Name: "Portal", HoursPlayed: 0.5},
		{Name: "Portal 2", HoursPlayed: 1.5},
	}, games)
}

func TestOwnedGames_PrivateProfileIsEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"response":{}}`))
	})

	games, err := c.OwnedGames(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestOwnedGames_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    pferrors.ErrorCode
		wantHit int32
	}{
		{"unauthorized", http.StatusUnauthorized, "bad key", pferrors.ErrCodeUnauthorized, 1},
		{"forbidden", http.StatusForbidden, "", pferrors.ErrCodeUnauthorized, 1},
		{"server error", http.StatusBadGateway, "", pferrors.ErrCodeUnavailable, 1},
		{"bad request", http.StatusBadRequest, "", pferrors.ErrCodeInvalidRequest, 1},
		{"malformed json", http.StatusOK, "{", pferrors.ErrCodeDataFormat, 1},
		{"missing name", http.StatusOK, `{"response":{"games":[{"appid":1,"playtime_forever":3}]}}`, pferrors.ErrCodeDataFormat, 1},
		{"missing playtime", http.StatusOK, `{"response":{"games":[{"appid":1,"name":"A"}]}}`, pferrors.ErrCodeDataFormat, 1},
		{"negative playtime", http.StatusOK, `{"response":{"games":[{"appid":1,"name":"A","playtime_forever":-6}]}}`, pferrors.ErrCodeDataFormat, 1},
		{"rate limited", http.StatusTooManyRequests, "", pferrors.ErrCodeRateLimitExceeded, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.OwnedGames(context.Background(), "1")
			require.Error(t, err)
			assert.Equal(t, tt.want, pferrors.CodeOf(err), "got %v", err)
			assert.Equal(t, tt.wantHit, hits.Load())
			assert.NotContains(t, err.Error(), "secret-key")
		})
	}
}

func TestOwnedGames_RetriesAfterRateLimit(t *testing.T) {
	var calls atomic.Int32
	c, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"response":{"games":[{"appid":1,"name":"Braid","playtime_forever":120}]}}`))
	})

	games, err := c.OwnedGames(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []library.OwnedGame{{Name: "Braid", HoursPlayed: 2}}, games)
	assert.Equal(t, int32(2), hits.Load())
}

func TestOwnedGames_BreakerOpensOnServerFailures(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for i := 0; i < breakerFailures; i++ {
		_, err := c.OwnedGames(context.Background(), "1")
		require.True(t, pferrors.IsCode(err, pferrors.ErrCodeUnavailable))
	}
	require.Equal(t, int32(breakerFailures), hits.Load())

	_, err := c.OwnedGames(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, pferrors.IsCode(err, pferrors.ErrCodeUnavailable))
	assert.True(t, strings.Contains(err.Error(), "circuit breaker"))
	assert.Equal(t, int32(breakerFailures), hits.Load(), "open breaker must not reach the server")
}

func TestOwnedGames_ClientErrorsDoNotOpenBreaker(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	for i := 0; i < breakerFailures+2; i++ {
		_, err := c.OwnedGames(context.Background(), "1")
		require.True(t, pferrors.IsCode(err, pferrors.ErrCodeUnauthorized))
	}
	assert.Equal(t, int32(breakerFailures+2), hits.Load())
}

func TestOwnedGames_CanceledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k", MaxRetries: 3, RetryBaseDelay: time.Hour})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.OwnedGames(ctx, "1")
	assert.True(t, pferrors.IsCode(err, pferrors.ErrCodeTimeout), "got %v", err)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{})
	assert.True(t, pferrors.IsCode(err, pferrors.ErrCodeUnauthorized))

	c, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)
	_, err = c.OwnedGames(context.Background(), "  ")
	assert.True(t, pferrors.IsCode(err, pferrors.ErrCodeInvalidRequest))
}

func TestReadBodyForError_Truncates(t *testing.T) {
	long := strings.Repeat("x", 70*1024)
	got := readBodyForError(strings.NewReader(long))
	assert.True(t, strings.HasSuffix(string(got), "(truncated)"))
	assert.Less(t, len(got), len(long))
}
