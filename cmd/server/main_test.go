package main

import (
	"context"
	"testing"
	"time"

	"github.com/iho/goforecast/internal/infrastructure/config"
)

func TestNewClockPinned(t *testing.T) {
	c, err := newClock(&config.Config{Today: "2025-06-18", Timezone: "UTC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC)
	if got := c.Today(); !got.Equal(want) {
		t.Fatalf("expected pinned day %s, got %s", want, got)
	}
}

func TestNewClockSystem(t *testing.T) {
	c, err := newClock(&config.Config{Timezone: "UTC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := c.Today()
	if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
		t.Fatalf("expected a UTC calendar date, got %s", got)
	}
}

func TestNewClockInvalid(t *testing.T) {
	if _, err := newClock(&config.Config{Today: "18/06/2025", Timezone: "UTC"}); err == nil {
		t.Fatal("expected error for malformed FORECAST_TODAY")
	}
	if _, err := newClock(&config.Config{Timezone: "Mars/Olympus"}); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestNewRateLimiterDisabled(t *testing.T) {
	if rl := newRateLimiter(context.Background(), &config.Config{RateLimitRPS: 0, RateLimitBurst: 10}); rl != nil {
		t.Fatal("expected no limiter when RATE_LIMIT_RPS is 0")
	}
}

func TestNewRateLimiterEnabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if rl := newRateLimiter(ctx, &config.Config{RateLimitRPS: 5, RateLimitBurst: 0}); rl == nil {
		t.Fatal("expected a limiter when RATE_LIMIT_RPS is positive")
	}
}
