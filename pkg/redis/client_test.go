package redis

import (
	"testing"
	"time"

	"github.com/rfigueroa/talentbridge-backend/pkg/config"
)

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither URL nor address is set")
	}
}

func TestOptionsFromConfigURL(t *testing.T) {
	cfg := config.RedisConfig{
		URL:          "redis://localhost:6379/2",
		PoolSize:     15,
		MinIdleConns: 3,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db 2 from url, got %d", opts.DB)
	}
	if opts.PoolSize != 15 || opts.MinIdleConns != 3 {
		t.Fatalf("pool settings not applied: %+v", opts)
	}
}

func TestKeyBuilders(t *testing.T) {
	c := &Client{}
	if got := c.IdempotencyKey("wallet-credit", "abc"); got != "tb:idempotency:wallet-credit:abc" {
		t.Fatalf("unexpected idempotency key %q", got)
	}
	if got := c.LockKey("cron-worker"); got != "tb:lock:cron-worker" {
		t.Fatalf("unexpected lock key %q", got)
	}
	if got := c.CounterKey("credits"); got != "tb:counter:credits" {
		t.Fatalf("unexpected counter key %q", got)
	}
}
