// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful search query",
			operation: "search",
			duration:  10 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "successful count query",
			operation: "count",
			duration:  5 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "failed query",
			operation: "search",
			duration:  100 * time.Millisecond,
			err:       errors.New("connection refused"),
		},
		{
			name:      "fast query under 1ms",
			operation: "summary",
			duration:  500 * time.Microsecond,
			err:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the query - should not panic
			RecordDBQuery(tt.operation, tt.duration, tt.err)
		})
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful search",
			method:     "GET",
			endpoint:   "/api/v3/search",
			statusCode: "200",
			duration:   25 * time.Millisecond,
		},
		{
			name:       "task submission",
			method:     "POST",
			endpoint:   "/api/tasks/submit",
			statusCode: "201",
			duration:   15 * time.Millisecond,
		},
		{
			name:       "rate limited request",
			method:     "GET",
			endpoint:   "/api/v3/search",
			statusCode: "429",
			duration:   1 * time.Millisecond,
		},
		{
			name:       "internal server error",
			method:     "GET",
			endpoint:   "/api/circles",
			statusCode: "500",
			duration:   500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the request - should not panic
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

// TestTrackActiveRequest_RequestLifecycle simulates realistic request lifecycle
func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	for i := 0; i < 10; i++ {
		TrackActiveRequest(true) // Request starts
	}
	for i := 0; i < 5; i++ {
		TrackActiveRequest(false) // Request ends
	}
	for i := 0; i < 5; i++ {
		TrackActiveRequest(false)
	}
}

// TestRecordCacheAccess tests cache hit/miss recording per cache type
func TestRecordCacheAccess(t *testing.T) {
	for _, cacheType := range []string{"search", "count", "turnstile"} {
		RecordCacheAccess(cacheType, true)
		RecordCacheAccess(cacheType, true)
		RecordCacheAccess(cacheType, false)
	}
}

// TestRecordSearchRequest covers the blank/cached label combinations
func TestRecordSearchRequest(t *testing.T) {
	for _, blank := range []bool{true, false} {
		for _, cached := range []bool{true, false} {
			RecordSearchRequest(blank, cached)
		}
	}
}

// TestRecordTurnstileVerification tests verification outcome recording
func TestRecordTurnstileVerification(t *testing.T) {
	for _, result := range []string{"success", "failure", "cached", "bypass", "unavailable"} {
		RecordTurnstileVerification(result)
	}
}

// TestRecordTaskCreated tests background task metric recording
func TestRecordTaskCreated(t *testing.T) {
	for _, taskType := range []string{"friend_search", "circle_fetch", "custom"} {
		RecordTaskCreated(taskType)
	}
}

func TestBoolLabel(t *testing.T) {
	if got := boolLabel(true); got != "true" {
		t.Errorf("boolLabel(true) = %q", got)
	}
	if got := boolLabel(false); got != "false" {
		t.Errorf("boolLabel(false) = %q", got)
	}
}

// TestConcurrentMetricRecording tests thread safety of metric recording
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 100
	operationsPerGoroutine := 50

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordDBQuery("search", time.Duration(j)*time.Millisecond, nil)
				RecordCacheAccess("search", j%2 == 0)
			}
		}()
	}

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}()
	}

	wg.Wait()
}

// TestMetricsRegistration verifies all metrics are properly registered
func TestMetricsRegistration(t *testing.T) {
	metrics := []prometheus.Collector{
		DBQueryDuration,
		DBQueryErrors,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		CacheHits,
		CacheMisses,
		CacheEvictions,
		CacheEntries,
		SearchRequestsTotal,
		TurnstileVerifications,
		TasksCreated,
		AppInfo,
		AppUptime,
	}

	// Verify each metric can be described
	for _, m := range metrics {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

func BenchmarkRecordDBQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordDBQuery("search", 10*time.Millisecond, nil)
	}
}

func BenchmarkRecordCacheAccess(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordCacheAccess("search", true)
	}
}
