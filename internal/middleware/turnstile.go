// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/honsemoe/backend/internal/cache"
	"github.com/honsemoe/backend/internal/config"
	"github.com/honsemoe/backend/internal/logging"
	"github.com/honsemoe/backend/internal/metrics"
)

// TokenHeader carries the Turnstile token from the frontend.
const TokenHeader = "CF-Turnstile-Token"

// Turnstile verifies Cloudflare Turnstile tokens on protected routes.
// Verified tokens are cached for the configured TTL so each solved
// challenge costs one siteverify round trip, and the verifier sits behind
// a circuit breaker so a Cloudflare outage degrades to 503 responses
// instead of piling up blocked requests.
type Turnstile struct {
	cfg     config.TurnstileConfig
	client  *http.Client
	cache   *cache.Cache
	breaker *gobreaker.CircuitBreaker[bool]
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// NewTurnstile builds the Turnstile gate. The cache is shared with the
// rest of the process; token entries use a "turnstile:" key prefix.
func NewTurnstile(cfg config.TurnstileConfig, c *cache.Cache) *Turnstile {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:        "turnstile-siteverify",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &Turnstile{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		cache:   c,
		breaker: breaker,
	}
}

// Middleware returns the verification middleware. Disabled or bypassed
// configurations pass everything through.
func (t *Turnstile) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !t.cfg.Enabled || t.cfg.Bypass {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				metrics.RecordTurnstileVerification("bypass")
				next.ServeHTTP(w, r)
			})
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(TokenHeader))
			if token == "" {
				metrics.RecordTurnstileVerification("failure")
				respondForbidden(w, "Turnstile token required")
				return
			}

			cacheKey := tokenCacheKey(token)
			var verified bool
			if t.cache.Get(cacheKey, &verified) && verified {
				metrics.RecordTurnstileVerification("cached")
				next.ServeHTTP(w, r)
				return
			}

			ok, err := t.breaker.Execute(func() (bool, error) {
				return t.verify(r, token)
			})
			if err != nil {
				if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
					metrics.RecordTurnstileVerification("unavailable")
					respondServiceUnavailable(w, "Verification service unavailable")
					return
				}
				logging.Err(err).Msg("turnstile verification failed")
				metrics.RecordTurnstileVerification("unavailable")
				respondServiceUnavailable(w, "Verification service unavailable")
				return
			}
			if !ok {
				metrics.RecordTurnstileVerification("failure")
				respondForbidden(w, "Turnstile verification failed")
				return
			}

			metrics.RecordTurnstileVerification("success")
			if err := t.cache.Set(cacheKey, true, t.cfg.TokenTTL); err != nil {
				logging.Err(err).Msg("failed to cache turnstile token")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// verify calls the siteverify endpoint. A transport or decode failure is an
// error (feeds the breaker); a clean "token rejected" answer is not.
func (t *Turnstile) verify(r *http.Request, token string) (bool, error) {
	form := url.Values{
		"secret":   {t.cfg.Secret},
		"response": {token},
	}
	if ip := ClientIP(r); ip != "" {
		form.Set("remoteip", ip)
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost,
		t.cfg.SiteverifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return false, err
	}

	var result siteverifyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, err
	}
	if !result.Success {
		logging.Debug().
			Strs("error_codes", result.ErrorCodes).
			Msg("turnstile token rejected")
	}
	return result.Success, nil
}

// ClientIP resolves the client address behind the reverse proxy:
// X-Forwarded-For's first hop, then X-Real-IP, then the socket address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// tokenCacheKey hashes the token so raw challenge tokens never sit in the
// cache as keys.
func tokenCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "turnstile:" + hex.EncodeToString(sum[:])
}

func respondForbidden(w http.ResponseWriter, message string) {
	writeErrorJSON(w, http.StatusForbidden, "TURNSTILE_REQUIRED", message)
}

func respondServiceUnavailable(w http.ResponseWriter, message string) {
	writeErrorJSON(w, http.StatusServiceUnavailable, "TURNSTILE_UNAVAILABLE", message)
}

func writeErrorJSON(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload, _ := json.Marshal(map[string]interface{}{
		"status": "error",
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
	_, _ = w.Write(payload)
}
