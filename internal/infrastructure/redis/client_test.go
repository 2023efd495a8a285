package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", s.Addr()))
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url")
	if err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close()

	_, err := NewClientWithConfig(context.Background(), ClientConfig{
		URL:          url,
		PingAttempts: 2,
		PingInterval: time.Millisecond,
	})
	if err == nil {
		t.Fatalf("expected ping error when server is down")
	}
}

func TestNewClientRecoversAfterRestart(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = s.Restart()
	}()

	client, err := NewClientWithConfig(context.Background(), ClientConfig{
		URL:          "redis://" + addr,
		PingAttempts: 20,
		PingInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("expected ping to succeed once the server is back, got %v", err)
	}
	client.Close()
}
