package publishauth

import "testing"

func TestPublishLimiterEnforcesBurstPerKey(t *testing.T) {
	l := NewPublishLimiter(&Config{RateLimitRPS: 1, RateLimitBurst: 2})

	if !l.Allow("key-a") || !l.Allow("key-a") {
		t.Fatal("expected first two requests within burst to be allowed")
	}
	if l.Allow("key-a") {
		t.Fatal("expected third immediate request to be denied")
	}
}

func TestPublishLimiterTracksKeysIndependently(t *testing.T) {
	l := NewPublishLimiter(&Config{RateLimitRPS: 1, RateLimitBurst: 1})

	if !l.Allow("key-a") {
		t.Fatal("expected key-a's first request to be allowed")
	}
	if !l.Allow("key-b") {
		t.Fatal("expected key-b to have its own independent bucket")
	}
}
